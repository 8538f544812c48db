package projects

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultListMax is the default number of paths returned by ListFiles.
	DefaultListMax = 500
	// AbsoluteListMax is the hard limit to prevent excessive memory.
	AbsoluteListMax = 5000
)

// ListFiles returns the slash-separated relative paths of regular files under
// root, sorted, skipping hidden directories. At most max paths are returned;
// max <= 0 means DefaultListMax.
func ListFiles(ctx context.Context, root string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultListMax
	}
	if max > AbsoluteListMax {
		max = AbsoluteListMax
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid project root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("project root not found: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, entry os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if os.IsPermission(err) && entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != absRoot && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		if len(paths) >= max {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
