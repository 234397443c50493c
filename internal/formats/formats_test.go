package formats

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG writes a solid-color PNG of the given size and returns its path
func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// writeEXRHeader writes a minimal EXR header with the given data window and
// a single HALF channel
func writeEXRHeader(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	var buf bytes.Buffer

	// Magic and version.
	binary.Write(&buf, binary.LittleEndian, uint32(0x01312f76))
	binary.Write(&buf, binary.LittleEndian, uint32(2))

	// channels attribute with one HALF channel named "R".
	chlist := &bytes.Buffer{}
	chlist.WriteString("R")
	chlist.WriteByte(0)
	binary.Write(chlist, binary.LittleEndian, int32(1)) // HALF
	chlist.WriteByte(0)                                 // pLinear
	chlist.Write([]byte{0, 0, 0})                       // reserved
	binary.Write(chlist, binary.LittleEndian, int32(1)) // xSampling
	binary.Write(chlist, binary.LittleEndian, int32(1)) // ySampling
	chlist.WriteByte(0)                                 // list terminator

	buf.WriteString("channels")
	buf.WriteByte(0)
	buf.WriteString("chlist")
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, int32(chlist.Len()))
	buf.Write(chlist.Bytes())

	// dataWindow attribute.
	buf.WriteString("dataWindow")
	buf.WriteByte(0)
	buf.WriteString("box2i")
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(width-1))
	binary.Write(&buf, binary.LittleEndian, int32(height-1))

	// Header terminator.
	buf.WriteByte(0)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// writeDPXHeader writes a minimal big-endian DPX header
func writeDPXHeader(t *testing.T, dir, name string, width, height uint32, bitSize byte) string {
	t.Helper()
	header := make([]byte, 1024)
	copy(header[0:4], "SDPX")
	binary.BigEndian.PutUint32(header[772:776], width)
	binary.BigEndian.PutUint32(header[776:780], height)
	header[803] = bitSize

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, header, 0644))
	return path
}

// TestStandardImageHandlerPNG tests metadata extraction from a real PNG
func TestStandardImageHandlerPNG(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "frame.0001.png", 64, 32)

	h := &StandardImageHandler{}
	assert.True(t, h.CanHandle(path))

	md, err := h.ReadMetadata(path)
	require.NoError(t, err)
	require.NotNil(t, md.Resolution)
	assert.Equal(t, 64, md.Resolution.Width)
	assert.Equal(t, 32, md.Resolution.Height)
	require.NotNil(t, md.BitDepth)
	assert.Equal(t, 8, *md.BitDepth)
	assert.Equal(t, "png", md.Format)
}

// TestStandardImageHandlerGarbage tests that non-image bytes produce an error
func TestStandardImageHandlerGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.0001.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	h := &StandardImageHandler{}
	_, err := h.ReadMetadata(path)
	assert.Error(t, err)
}

// TestStandardImageHandlerExtensions tests extension dispatch
func TestStandardImageHandlerExtensions(t *testing.T) {
	h := &StandardImageHandler{}
	assert.True(t, h.CanHandle("a.PNG"))
	assert.True(t, h.CanHandle("a.jpeg"))
	assert.True(t, h.CanHandle("a.jpg"))
	assert.True(t, h.CanHandle("a.gif"))
	assert.False(t, h.CanHandle("a.exr"))
	assert.False(t, h.CanHandle("a.txt"))
	assert.False(t, h.CanHandle("noext"))
}

// TestEXRHandler tests EXR header parsing against a crafted header
func TestEXRHandler(t *testing.T) {
	dir := t.TempDir()
	path := writeEXRHeader(t, dir, "shot.1001.exr", 1920, 1080)

	h := &EXRHandler{}
	assert.True(t, h.CanHandle(path))

	md, err := h.ReadMetadata(path)
	require.NoError(t, err)
	require.NotNil(t, md.Resolution)
	assert.Equal(t, 1920, md.Resolution.Width)
	assert.Equal(t, 1080, md.Resolution.Height)
	require.NotNil(t, md.BitDepth)
	assert.Equal(t, 16, *md.BitDepth)
	assert.Equal(t, "exr", md.Format)
}

// TestEXRHandlerBadMagic tests that non-EXR bytes are rejected
func TestEXRHandlerBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.1001.exr")
	require.NoError(t, os.WriteFile(path, []byte("garbage bytes here"), 0644))

	h := &EXRHandler{}
	_, err := h.ReadMetadata(path)
	assert.Error(t, err)
}

// TestDPXHandler tests DPX header parsing against a crafted header
func TestDPXHandler(t *testing.T) {
	dir := t.TempDir()
	path := writeDPXHeader(t, dir, "plate.0001.dpx", 2048, 1556, 10)

	h := &DPXHandler{}
	assert.True(t, h.CanHandle(path))

	md, err := h.ReadMetadata(path)
	require.NoError(t, err)
	require.NotNil(t, md.Resolution)
	assert.Equal(t, 2048, md.Resolution.Width)
	assert.Equal(t, 1556, md.Resolution.Height)
	require.NotNil(t, md.BitDepth)
	assert.Equal(t, 10, *md.BitDepth)
}

// TestDPXHandlerTruncated tests that a short file is rejected
func TestDPXHandlerTruncated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plate.0001.dpx")
	require.NoError(t, os.WriteFile(path, []byte("SDPX"), 0644))

	h := &DPXHandler{}
	_, err := h.ReadMetadata(path)
	assert.Error(t, err)
}

// stubHandler accepts every path and reports a fixed resolution
type stubHandler struct{ width int }

func (s *stubHandler) CanHandle(string) bool { return true }
func (s *stubHandler) ReadMetadata(path string) (Metadata, error) {
	return Metadata{Resolution: &Resolution{Width: s.width, Height: 1}}, nil
}

// TestRegistryPriority tests that later-registered handlers win
func TestRegistryPriority(t *testing.T) {
	reg := DefaultRegistry()

	h, ok := reg.HandlerFor("frame.0001.png")
	require.True(t, ok)
	assert.IsType(t, &StandardImageHandler{}, h)

	// A custom handler registered afterwards takes priority over built-ins.
	custom := &stubHandler{width: 99}
	reg.Register(custom)

	h, ok = reg.HandlerFor("frame.0001.png")
	require.True(t, ok)
	assert.Same(t, custom, h)
}

// TestRegistryNoHandler tests that unknown extensions resolve to no handler
func TestRegistryNoHandler(t *testing.T) {
	reg := DefaultRegistry()
	_, ok := reg.HandlerFor("notes.txt")
	assert.False(t, ok)
}

// TestResolutionString tests the display form used in messages
func TestResolutionString(t *testing.T) {
	assert.Equal(t, "1920x1080", Resolution{Width: 1920, Height: 1080}.String())
}
