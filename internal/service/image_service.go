package service

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const defaultJPEGQuality = 80

// ImageService performs stateless image transformations. All work happens in
// memory per request; nothing is shared between calls.
type ImageService struct{}

// NewImageService creates a new image service.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Resize scales the image to exactly width x height. quality (1-100) applies
// to JPEG output only; PNG stays lossless to preserve transparency.
func (s *ImageService) Resize(r io.Reader, contentType string, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return s.encode(resized, contentType, quality)
}

// Upscale multiplies both dimensions by factor using bicubic resampling.
func (s *ImageService) Upscale(r io.Reader, contentType string, factor float64) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * factor)
	height := int(float64(bounds.Dy()) * factor)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("scale factor %v collapses the image", factor)
	}

	upscaled := imaging.Resize(img, width, height, imaging.CatmullRom)
	return s.encode(upscaled, contentType, defaultJPEGQuality)
}

func (s *ImageService) encode(img image.Image, contentType string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if contentType == "image/png" {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
