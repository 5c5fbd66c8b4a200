package mask

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"overlay-service/internal/canvas"
	"overlay-service/internal/overlay"
)

// Store persists mask bitmaps. Load reports absent masks with found=false
// rather than an error.
type Store interface {
	Load(ctx context.Context) (data []byte, found bool, err error)
	Save(ctx context.Context, data []byte) error
}

// Controller drives the auto-exposure mask stage. It is fully independent
// of the overlay canvas: it shares only the background image reference and
// owns its own viewport and bitmap.
type Controller struct {
	store Store
	bmp   *Bitmap
	vp    *canvas.Viewport
}

// NewController loads the stored mask, or creates a fresh fully opaque one
// when none has been saved yet.
func NewController(ctx context.Context, store Store, imageW, imageH, viewW, viewH int) (*Controller, error) {
	c := &Controller{
		store: store,
		vp:    canvas.NewViewport(imageW, imageH, viewW, viewH),
	}
	data, found, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	if !found {
		c.bmp = NewBitmap(imageW, imageH)
		return c, nil
	}
	bmp, err := DecodePNG(data)
	if err != nil {
		return nil, err
	}
	if w, h := bmp.Size(); w != imageW || h != imageH {
		// Stored mask no longer matches the capture resolution; start over.
		bmp = NewBitmap(imageW, imageH)
	}
	c.bmp = bmp
	return c, nil
}

// Bitmap returns the in-memory mask.
func (c *Controller) Bitmap() *Bitmap {
	return c.bmp
}

// Paint applies value to the given region of the mask.
func (c *Controller) Paint(region image.Rectangle, value uint8) {
	c.bmp.Paint(region, value)
}

// Reset restores the mask to its initial fully opaque state.
func (c *Controller) Reset() {
	c.bmp.Reset()
}

// Save hands the current bitmap to the store. On failure the in-memory
// bitmap is left untouched so the operator can retry.
func (c *Controller) Save(ctx context.Context) error {
	data, err := c.bmp.EncodePNG()
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, data); err != nil {
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	return nil
}

// Viewport returns the mask stage viewport.
func (c *Controller) Viewport() *canvas.Viewport {
	return c.vp
}
