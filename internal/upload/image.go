package upload

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// fitImage downscales an encoded image so that neither side exceeds maxDim.
// Images that already fit are returned untouched. WebP cannot be decoded by
// imaging and is passed through as is.
func fitImage(data []byte, ext string, maxDim int) ([]byte, error) {
	if ext == ".webp" {
		return data, nil
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return data, nil
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	log.Debugf("Resized image from %dx%d to %dx%d",
		bounds.Dx(), bounds.Dy(), resized.Bounds().Dx(), resized.Bounds().Dy())

	return buf.Bytes(), nil
}
