package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const maxParallelReads = 8

// LoadDir reads every text file directly inside dir (plain or compressed)
// concurrently and joins them with newlines in file name order.
// Subdirectories are not descended into.
func LoadDir(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		return "", ErrEmptyPath
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read corpus dir %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by name
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isTextFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		log.Warnf("No text files found in corpus dir %s", dir)
		return "", nil
	}

	texts := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := LoadFile(path)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Debugf("Loaded %d corpus files from %s", len(paths), dir)
	return strings.Join(texts, "\n"), nil
}
