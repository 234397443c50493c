package formats

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// DPXHandler reads metadata from DPX file headers.
//
// DPX headers use fixed offsets, so the reader only needs the first 1024
// bytes: image size from the generic image header and bit depth from the
// first image element.
type DPXHandler struct{}

// DPX magic numbers. "SDPX" marks a big-endian file, "XPDS" little-endian.
const (
	dpxMagicBE = 0x53445058
	dpxMagicLE = 0x58504453
)

// Fixed header offsets from the DPX specification.
const (
	dpxOffPixelsPerLine = 772
	dpxOffLinesPerImage = 776
	dpxOffBitSize       = 803
	dpxHeaderBytes      = 1024
)

// CanHandle reports whether the file extension is .dpx.
func (h *DPXHandler) CanHandle(path string) bool {
	return extOf(path) == "dpx"
}

// ReadMetadata reads resolution and bit depth from the DPX header.
func (h *DPXHandler) ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, dpxHeaderBytes)
	if _, err := io.ReadFull(f, header); err != nil {
		return Metadata{}, fmt.Errorf("reading DPX header of %s: %w", path, err)
	}

	var order binary.ByteOrder
	switch binary.BigEndian.Uint32(header[0:4]) {
	case dpxMagicBE:
		order = binary.BigEndian
	case dpxMagicLE:
		order = binary.LittleEndian
	default:
		return Metadata{}, fmt.Errorf("%s is not a DPX file", path)
	}

	width := order.Uint32(header[dpxOffPixelsPerLine : dpxOffPixelsPerLine+4])
	height := order.Uint32(header[dpxOffLinesPerImage : dpxOffLinesPerImage+4])
	depth := int(header[dpxOffBitSize])

	if width == 0 || height == 0 {
		return Metadata{}, fmt.Errorf("DPX header of %s has zero image size", path)
	}

	return Metadata{
		Resolution: &Resolution{Width: int(width), Height: int(height)},
		BitDepth:   &depth,
		Format:     "dpx",
	}, nil
}
