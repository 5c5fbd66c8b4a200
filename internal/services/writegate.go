package services

import (
	"context"
	"sync"
	"sync/atomic"
)

// WriteGate serializes saves to one logical resource. At most one save is
// in flight at a time; a save issued while another is still waiting for the
// gate supersedes the waiting one, so the final persisted state is always
// exactly one issued payload and two writes never interleave.
type WriteGate struct {
	mu  sync.Mutex
	seq atomic.Uint64
}

// Do runs save under the gate. If a newer save for the same resource was
// issued by the time this one acquires the gate, the stale payload is
// dropped and Do returns nil without writing.
func (g *WriteGate) Do(ctx context.Context, save func(ctx context.Context) error) error {
	my := g.seq.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seq.Load() != my {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return save(ctx)
}
