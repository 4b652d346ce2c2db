package dsindex

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

type FilesOptions struct {
	// Dirs selects directories instead of regular files.
	Dirs bool
	// Sort orders the basenames lexicographically.
	Sort bool
}

// NewFilesIndex builds an index of the basenames of the paths matching a glob pattern, e.g. "/data/archive*/patient*".
func NewFilesIndex(pattern string, opts FilesOptions) (*Index[string], error) {
	return New(Deferred(func() ([]string, error) {
		return ListFiles(pattern, opts)
	}))
}

func ListFiles(pattern string, opts FilesOptions) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to match pattern %q: %w", pattern, err)
	}

	var names []string
	for _, path := range paths {
		// Stat follows symlinks. Broken ones are neither files nor directories.
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if opts.Dirs && info.IsDir() || !opts.Dirs && info.Mode().IsRegular() {
			names = append(names, filepath.Base(path))
		}
	}

	if opts.Sort {
		slices.Sort(names)
	}
	return names, nil
}
