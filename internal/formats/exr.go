package formats

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// EXRHandler reads metadata from OpenEXR headers.
//
// Only the attribute list at the top of the file is parsed: dataWindow for
// the resolution and the first entry of the channel list for the bit depth.
type EXRHandler struct{}

const exrMagic = 0x01312f76

// EXR channel pixel types.
const (
	exrPixelUint  = 0
	exrPixelHalf  = 1
	exrPixelFloat = 2
)

// exrMaxNameLen bounds attribute and channel name reads so a corrupt header
// cannot make the parser scan the whole file.
const exrMaxNameLen = 256

// CanHandle reports whether the file extension is .exr.
func (h *EXRHandler) CanHandle(path string) bool {
	return extOf(path) == "exr"
}

// ReadMetadata parses the EXR header attributes.
func (h *EXRHandler) ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic, version uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return Metadata{}, fmt.Errorf("reading EXR magic from %s: %w", path, err)
	}
	if magic != exrMagic {
		return Metadata{}, fmt.Errorf("%s is not an EXR file", path)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Metadata{}, fmt.Errorf("reading EXR version from %s: %w", path, err)
	}

	md := Metadata{Format: "exr"}

	for {
		name, err := readCString(r, exrMaxNameLen)
		if err != nil {
			return Metadata{}, fmt.Errorf("reading EXR header of %s: %w", path, err)
		}
		if name == "" {
			// Empty attribute name terminates the header.
			break
		}

		attrType, err := readCString(r, exrMaxNameLen)
		if err != nil {
			return Metadata{}, fmt.Errorf("reading EXR header of %s: %w", path, err)
		}
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return Metadata{}, fmt.Errorf("reading EXR header of %s: %w", path, err)
		}
		if size < 0 {
			return Metadata{}, fmt.Errorf("invalid EXR attribute size %d in %s", size, path)
		}

		value := make([]byte, size)
		if _, err := io.ReadFull(r, value); err != nil {
			return Metadata{}, fmt.Errorf("reading EXR header of %s: %w", path, err)
		}

		switch {
		case name == "dataWindow" && attrType == "box2i" && size == 16:
			xMin := int32(binary.LittleEndian.Uint32(value[0:4]))
			yMin := int32(binary.LittleEndian.Uint32(value[4:8]))
			xMax := int32(binary.LittleEndian.Uint32(value[8:12]))
			yMax := int32(binary.LittleEndian.Uint32(value[12:16]))
			md.Resolution = &Resolution{
				Width:  int(xMax-xMin) + 1,
				Height: int(yMax-yMin) + 1,
			}
		case name == "channels" && attrType == "chlist":
			if depth, ok := firstChannelDepth(value); ok {
				md.BitDepth = &depth
			}
		}

		if md.Resolution != nil && md.BitDepth != nil {
			break
		}
	}

	if md.Resolution == nil {
		return Metadata{}, fmt.Errorf("EXR header of %s has no dataWindow", path)
	}
	return md, nil
}

// firstChannelDepth extracts the bit depth of the first channel from a
// chlist attribute value.
func firstChannelDepth(value []byte) (int, bool) {
	// Channel entry: name\0, pixelType int32, pLinear byte, 3 reserved
	// bytes, xSampling int32, ySampling int32. A null byte where a name
	// would start terminates the list.
	i := 0
	for i < len(value) && value[i] != 0 {
		i++
	}
	if i == 0 || i+5 > len(value) {
		return 0, false
	}
	pixelType := int32(binary.LittleEndian.Uint32(value[i+1 : i+5]))
	switch pixelType {
	case exrPixelHalf:
		return 16, true
	case exrPixelUint, exrPixelFloat:
		return 32, true
	}
	return 0, false
}

// readCString reads a null-terminated string of at most max bytes.
func readCString(r *bufio.Reader, max int) (string, error) {
	var buf []byte
	for len(buf) <= max {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
	return "", fmt.Errorf("unterminated string in header")
}
