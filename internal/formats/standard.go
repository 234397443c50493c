package formats

import (
	"fmt"
	"image"
	"image/color"
	"os"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// StandardImageHandler reads metadata for the formats the Go image package
// can decode: PNG, JPEG, and GIF.
type StandardImageHandler struct{}

var standardExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// CanHandle reports whether the file extension is a standard image format.
func (h *StandardImageHandler) CanHandle(path string) bool {
	return standardExtensions[extOf(path)]
}

// ReadMetadata reads the image header via image.DecodeConfig. The pixel data
// is never decoded.
func (h *StandardImageHandler) ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("decoding image header of %s: %w", path, err)
	}

	depth := bitDepthOf(cfg.ColorModel)
	return Metadata{
		Resolution: &Resolution{Width: cfg.Width, Height: cfg.Height},
		BitDepth:   &depth,
		Format:     extOf(path),
	}, nil
}

// bitDepthOf maps a color model to its per-channel bit depth.
func bitDepthOf(model color.Model) int {
	switch model {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		return 16
	default:
		// RGBA, NRGBA, Gray, YCbCr, paletted: 8 bits per channel.
		return 8
	}
}
