package mask

import (
	"bytes"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// Bitmap is the auto-exposure mask: one grayscale byte per pixel of the
// background image. 255 means the pixel participates fully in the exposure
// computation, 0 excludes it. Intermediate values weight it.
type Bitmap struct {
	img *image.Gray
}

// Opaque is the initial and reset value of every mask pixel: the whole
// frame participates in the exposure computation until painted out.
const Opaque uint8 = 255

// NewBitmap creates a fully opaque mask of the given dimensions.
func NewBitmap(w, h int) *Bitmap {
	b := &Bitmap{img: image.NewGray(image.Rect(0, 0, w, h))}
	b.fill(Opaque)
	return b
}

func (b *Bitmap) fill(v uint8) {
	for i := range b.img.Pix {
		b.img.Pix[i] = v
	}
}

// Size returns the mask dimensions.
func (b *Bitmap) Size() (w, h int) {
	r := b.img.Bounds()
	return r.Dx(), r.Dy()
}

// At returns the mask value at the given pixel.
func (b *Bitmap) At(x, y int) uint8 {
	return b.img.GrayAt(x, y).Y
}

// Paint sets every pixel inside region to value. The region is clipped to
// the mask bounds.
func (b *Bitmap) Paint(region image.Rectangle, value uint8) {
	region = region.Intersect(b.img.Bounds())
	for y := region.Min.Y; y < region.Max.Y; y++ {
		row := b.img.Pix[y*b.img.Stride+region.Min.X : y*b.img.Stride+region.Max.X]
		for i := range row {
			row[i] = value
		}
	}
}

// Reset restores the documented initial state: fully opaque.
func (b *Bitmap) Reset() {
	b.fill(Opaque)
}

// EncodePNG serializes the mask as a PNG image.
func (b *Bitmap) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.img); err != nil {
		return nil, errors.Wrap(err, "encoding mask")
	}
	return buf.Bytes(), nil
}

// DecodePNG deserializes a mask previously produced by EncodePNG. Colour
// PNGs are converted to grayscale.
func DecodePNG(data []byte) (*Bitmap, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding mask")
	}
	if gray, ok := img.(*image.Gray); ok {
		return &Bitmap{img: gray}, nil
	}
	r := img.Bounds()
	gray := image.NewGray(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return &Bitmap{img: gray}, nil
}
