package sequence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/dotcommander/vfxlint/internal/formats"
)

// FrameInfo describes one probed frame of a sequence. Instances are built
// fresh per scan and never mutated afterwards.
type FrameInfo struct {
	// FrameNumber may be negative or zero; it is not restricted.
	FrameNumber int
	// FilePath is the exact path this frame number maps to under the
	// pattern.
	FilePath string
	// Exists reports filesystem existence at scan time.
	Exists bool
	// Readable is true only when at least one byte could be read and, for
	// extensions with a registered metadata handler, the header parsed.
	Readable bool
	// Resolution and BitDepth are present only when a metadata handler
	// recognized the extension and could read the header.
	Resolution *formats.Resolution
	BitDepth   *int
	// Format is the bare lowercase extension without the leading dot.
	Format string
}

// Scanner enumerates and probes frames for a parsed pattern against the
// filesystem.
//
// Supported pattern notations:
//   - printf-style: shot_010.%04d.exr
//   - hash-style: shot_010.####.exr
//   - range-style: shot_010.[1001-1100].exr
type Scanner struct {
	pattern *Pattern
	formats *formats.Registry

	// Concurrency bounds the worker pool used by ScanAll. Values below 1
	// scan sequentially.
	Concurrency int
}

// NewScanner parses the pattern and returns a scanner using the given
// metadata registry. A nil registry disables metadata enrichment.
func NewScanner(pattern string, registry *formats.Registry) (*Scanner, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed sequence pattern",
		"kind", p.Kind.String(), "base", p.BaseName, "padding", p.Padding, "ext", p.Extension)
	return &Scanner{pattern: p, formats: registry, Concurrency: 1}, nil
}

// Pattern returns the parsed pattern.
func (s *Scanner) Pattern() *Pattern { return s.pattern }

// DetectFrames returns the frame numbers of all existing files in the base
// directory that instantiate the pattern, in ascending order.
//
// The directory is re-read on every call; contents may change between calls
// and stale results are never acceptable. A non-existent base directory
// yields an empty result, not an error.
func (s *Scanner) DetectFrames() ([]int, error) {
	entries, err := os.ReadDir(s.pattern.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("sequence directory does not exist", "dir", s.pattern.Dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading sequence directory %s: %w", s.pattern.Dir, err)
	}

	var frames []int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if frame, ok := s.pattern.MatchFrame(entry.Name()); ok {
			frames = append(frames, frame)
		}
	}
	sort.Ints(frames)
	slog.Debug("detected frames", "count", len(frames))
	return frames, nil
}

// FrameRange is the inclusive first/last span of detected frames.
type FrameRange struct {
	First int
	Last  int
}

// String renders the range as "FIRST-LAST".
func (r FrameRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// DetectedRange returns the first/last frame numbers over DetectFrames, or
// nil when no frames exist.
func (s *Scanner) DetectedRange() (*FrameRange, error) {
	frames, err := s.DetectFrames()
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, nil
	}
	return &FrameRange{First: frames[0], Last: frames[len(frames)-1]}, nil
}

// ScanFrame probes a single frame number, which need not be one returned by
// DetectFrames; callers may probe an expected-but-missing frame.
//
// All I/O failures during the probe are swallowed into the returned
// FrameInfo (Exists/Readable false, metadata absent); one bad frame never
// aborts a scan.
func (s *Scanner) ScanFrame(frame int) FrameInfo {
	info := FrameInfo{
		FrameNumber: frame,
		FilePath:    s.pattern.FramePath(frame),
		Format:      s.pattern.Format(),
	}

	stat, err := os.Stat(info.FilePath)
	if err != nil || stat.IsDir() {
		return info
	}
	info.Exists = true

	if !probeReadable(info.FilePath) {
		slog.Debug("frame not readable", "frame", frame, "path", info.FilePath)
		return info
	}
	info.Readable = true

	if s.formats == nil {
		return info
	}
	handler, ok := s.formats.HandlerFor(info.FilePath)
	if !ok {
		return info
	}
	md, err := handler.ReadMetadata(info.FilePath)
	if err != nil {
		// A recognized extension whose header cannot be parsed is treated
		// as a corrupted frame.
		slog.Debug("metadata read failed", "frame", frame, "path", info.FilePath, "error", err)
		info.Readable = false
		return info
	}
	info.Resolution = md.Resolution
	info.BitDepth = md.BitDepth
	return info
}

// probeReadable opens the file and reads a single byte.
func probeReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 1)
	n, err := f.Read(buf)
	return err == nil && n > 0
}

// ScanAll probes every detected frame and returns FrameInfo records in
// ascending frame-number order.
//
// Probes are independent, so they run on a bounded worker pool of size
// Concurrency. Results land in a pre-sized slice indexed by detection
// order, which keeps the output sorted without extra synchronization.
func (s *Scanner) ScanAll(ctx context.Context) ([]FrameInfo, error) {
	frames, err := s.DetectFrames()
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, nil
	}

	workers := s.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(frames) {
		workers = len(frames)
	}

	results := make([]FrameInfo, len(frames))

	if workers == 1 {
		for i, frame := range frames {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			results[i] = s.ScanFrame(frame)
		}
		slog.Debug("scanned frames", "count", len(results))
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.ScanFrame(frames[i])
			}
		}()
	}

	for i := range frames {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	slog.Debug("scanned frames", "count", len(results))
	return results, nil
}
