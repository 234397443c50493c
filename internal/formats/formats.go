// Package formats maps image file extensions to metadata readers.
//
// Readers extract resolution and bit depth from image headers only; full
// pixel decoding is out of scope. Handlers live in an explicit Registry
// value rather than a process-global list so tests and concurrent
// validations stay isolated.
package formats

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolution is an image width/height pair in pixels.
type Resolution struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String renders the resolution as "WIDTHxHEIGHT".
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Metadata holds the image properties a handler could extract. Resolution
// and BitDepth are nil when the handler could not determine them.
type Metadata struct {
	Resolution *Resolution
	BitDepth   *int
	Format     string
}

// Handler reads metadata for one family of image formats.
type Handler interface {
	// CanHandle reports whether this handler supports the file, judged by
	// extension.
	CanHandle(path string) bool

	// ReadMetadata extracts resolution and bit depth from the file header.
	// It returns an error if the file cannot be parsed as this format.
	ReadMetadata(path string) (Metadata, error)
}

// Registry holds an ordered list of handlers. The first handler whose
// CanHandle accepts a path wins.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates a registry with the given handlers, earliest first.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: handlers}
}

// DefaultRegistry returns a registry with the built-in handlers: EXR, DPX,
// and the standard formats readable by the Go image package.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&EXRHandler{},
		&DPXHandler{},
		&StandardImageHandler{},
	)
}

// Register adds a handler at the front of the list so it takes priority
// over previously registered handlers.
func (r *Registry) Register(h Handler) {
	r.handlers = append([]Handler{h}, r.handlers...)
}

// HandlerFor returns the first handler that supports the given path.
func (r *Registry) HandlerFor(path string) (Handler, bool) {
	for _, h := range r.handlers {
		if h.CanHandle(path) {
			return h, true
		}
	}
	return nil, false
}

// extOf returns the lowercase file extension without the leading dot.
func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
