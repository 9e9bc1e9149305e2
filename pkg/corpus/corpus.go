// Package corpus loads training text for the suggestion engine from plain
// or compressed files, directories, JSON-lines exports and bbolt databases.
package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	// ErrUnknownSource is returned by Load for a source it cannot dispatch.
	ErrUnknownSource = errors.New("unknown corpus source")
	// ErrEmptyPath is returned when a file based source has no path.
	ErrEmptyPath = errors.New("corpus path is empty")
	// ErrBucketNotFound is returned by LoadBolt when the bucket is missing.
	ErrBucketNotFound = errors.New("bucket not found")
)

const sample = `
Machine learning is a subfield of artificial intelligence.
Machine code is understood by computers.
Machine learning engineers build predictive models.
Artificial intelligence is transforming software engineering.
Software engineers write clean code.
Machine learning algorithms require large amounts of data.
Data science relies heavily on statistics and probability.
Artificial neural networks mimic the human brain.
Deep learning is a subset of machine learning.
Software engineering practices ensure reliable systems.
`

// Sample returns the built-in technical writing corpus.
func Sample() string {
	return sample
}

// textExts are the plain text extensions picked up by LoadDir, before any
// compression suffix is stripped.
var textExts = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// compressionExt returns the compression suffix of path, or "".
func compressionExt(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gz", ".zst", ".lz4":
		return ext
	}
	return ""
}

// isTextFile reports whether LoadDir should read path.
func isTextFile(path string) bool {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if compressionExt(path) == "" {
		base = path
	}
	return textExts[strings.ToLower(filepath.Ext(base))]
}

// openFile opens path and wraps it in a decompressor picked by extension.
// Closing the returned reader closes the file.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch compressionExt(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, f}}, nil
	case ".lz4":
		return &stackedCloser{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

// LoadFile reads a text file. Files ending in .gz, .zst or .lz4 are
// decompressed.
func LoadFile(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	r, err := openFile(path)
	if err != nil {
		return "", fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read corpus %s: %w", path, err)
	}
	log.Debugf("Loaded corpus file %s (%d bytes)", path, len(data))
	return string(data), nil
}

// LoadJSONLines reads one JSON document per line and returns the text found
// at the gjson path field in each. Lines without that path are skipped;
// a malformed line is an error.
func LoadJSONLines(path, field string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	r, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer r.Close()

	return readJSONLines(r, field)
}

// Load dispatches on cfg.Source and returns the whole corpus as one text.
func Load(ctx context.Context, cfg config.CorpusConfig) (string, error) {
	source := cfg.Source
	if source == "" {
		source = InferSource(cfg.Path)
	}
	if source != config.SourceSample && cfg.Path == "" {
		return "", fmt.Errorf("%s source: %w", source, ErrEmptyPath)
	}

	switch source {
	case config.SourceSample:
		return Sample(), nil
	case config.SourceFile:
		return LoadFile(cfg.Path)
	case config.SourceDir:
		return LoadDir(ctx, cfg.Path)
	case config.SourceJSONL:
		docs, err := LoadJSONLines(cfg.Path, cfg.Field)
		if err != nil {
			return "", err
		}
		return strings.Join(docs, "\n"), nil
	case config.SourceBolt:
		docs, err := LoadBolt(cfg.Path, cfg.Bucket)
		if err != nil {
			return "", err
		}
		return strings.Join(docs, "\n"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
}

// InferSource guesses the source for a path given without one.
func InferSource(path string) string {
	if path == "" {
		return config.SourceSample
	}
	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		return config.SourceDir
	}
	base := path
	if compressionExt(path) != "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".jsonl", ".ndjson":
		return config.SourceJSONL
	case ".db", ".bolt":
		return config.SourceBolt
	}
	return config.SourceFile
}

// newLineScanner returns a scanner that accepts long lines.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}
