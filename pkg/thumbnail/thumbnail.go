// Package thumbnail decodes images and renders reduced variants of them.
//
// Reduced variants fit in a bounding box while keeping the aspect ratio of
// the original, and are always encoded as JPEG.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// decoders for the formats accepted as originals
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality of rendered variants
const DefaultQuality = 85

// Resizer knows how to inspect and shrink encoded images.
type Resizer interface {
	// Dimensions returns the width and height of an encoded image.
	Dimensions(data []byte) (width, height uint32, err error)

	// Resize renders the image so that it fits in a maxWidth x maxHeight box.
	Resize(data []byte, maxWidth, maxHeight uint32) ([]byte, error)
}

var _ Resizer = &Scaler{}

// Scaler is the default Resizer, based on golang.org/x/image/draw.
type Scaler struct {
	quality int
	kernel  draw.Scaler
}

// Option for the Scaler
type Option func(*Scaler)

// WithQuality sets the JPEG quality (1-100) of rendered variants
func WithQuality(quality int) Option {
	return func(s *Scaler) {
		if quality > 0 && quality <= 100 {
			s.quality = quality
		}
	}
}

// WithKernel sets the interpolation used when scaling (e.g. draw.ApproxBiLinear)
func WithKernel(kernel draw.Scaler) Option {
	return func(s *Scaler) {
		if kernel != nil {
			s.kernel = kernel
		}
	}
}

// New Scaler
func New(opts ...Option) *Scaler {
	s := &Scaler{
		quality: DefaultQuality,
		kernel:  draw.CatmullRom,
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Dimensions of an encoded image, read from its header only
func (s *Scaler) Dimensions(data []byte) (uint32, uint32, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return uint32(cfg.Width), uint32(cfg.Height), nil
}

// Resize an encoded image to fit in a maxWidth x maxHeight box.
//
// Images already smaller than the box are re-encoded without scaling.
func (s *Scaler) Resize(data []byte, maxWidth, maxHeight uint32) ([]byte, error) {
	if maxWidth == 0 || maxHeight == 0 {
		return nil, fmt.Errorf("invalid bounding box %dx%d", maxWidth, maxHeight)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	width, height := Fit(uint32(bounds.Dx()), uint32(bounds.Dy()), maxWidth, maxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	s.kernel.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit computes the dimensions of a width x height image shrunk to fit
// in a maxWidth x maxHeight box, keeping the aspect ratio.
//
// Images fitting in the box are left unchanged. Dimensions are never
// rounded down to zero.
func Fit(width, height, maxWidth, maxHeight uint32) (uint32, uint32) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	w, h := uint64(width), uint64(height)
	// compare width/maxWidth against height/maxHeight without floats
	if w*uint64(maxHeight) >= h*uint64(maxWidth) {
		return maxWidth, atLeastOne(h * uint64(maxWidth) / w)
	}
	return atLeastOne(w * uint64(maxHeight) / h), maxHeight
}

func atLeastOne(v uint64) uint32 {
	if v == 0 {
		return 1
	}
	return uint32(v)
}
