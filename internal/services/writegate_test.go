package services

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGateRunsSave(t *testing.T) {
	var g WriteGate
	ran := false
	err := g.Do(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWriteGatePropagatesSaveError(t *testing.T) {
	var g WriteGate
	want := errors.New("disk full")
	err := g.Do(context.Background(), func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestWriteGateRespectsCancelledContext(t *testing.T) {
	var g WriteGate
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Do(ctx, func(ctx context.Context) error {
		t.Fatal("save must not run under a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteGateNeverInterleavesWrites(t *testing.T) {
	var g WriteGate
	var inFlight, maxInFlight int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "at most one save in flight")
}

func TestWriteGateLatestPayloadWins(t *testing.T) {
	var g WriteGate
	var mu sync.Mutex
	var written []int

	// Hold the gate with a first save while issuing more, then release.
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = g.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			mu.Lock()
			written = append(written, 0)
			mu.Unlock()
			return nil
		})
	}()
	<-started

	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(payload int) {
			defer wg.Done()
			_ = g.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				written = append(written, payload)
				mu.Unlock()
				return nil
			})
		}(i)
	}

	// Release only once all five contenders have taken a sequence number,
	// so every one of them was issued while the first save held the gate.
	for g.seq.Load() != 6 {
		runtime.Gosched()
	}
	close(release)
	<-done
	wg.Wait()

	// The first save was already writing and completes; of the five issued
	// while it held the gate, only the newest sequence number writes.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, written, 2)
	assert.Equal(t, 0, written[0])
	assert.Contains(t, []int{1, 2, 3, 4, 5}, written[1])
}
