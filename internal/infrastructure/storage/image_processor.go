package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

type ImageProcessor struct {
	ThumbSize int
	Quality   int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{ThumbSize: 300, Quality: 85}
}

// Thumbnail decodes the source image, fits it inside a ThumbSize box
// giữ nguyên aspect ratio, và encode lại thành JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.ThumbSize, p.ThumbSize, imaging.Lanczos)

	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return b.Bytes(), nil
}
