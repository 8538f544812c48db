package files

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Rejection reasons carried on Content.Err.
var (
	ErrEmptyPath    = errors.New("file path is empty")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrOutsideRoot  = errors.New("file path is outside of the project directory")
	ErrNotRegular   = errors.New("not a regular file")
)

// FileAccessError wraps an I/O failure for one reference.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Contains reports whether target is root or lies beneath it. Both paths
// must already be absolute and clean. A sibling sharing root as a string
// prefix (root /a/b, target /a/bc) is not contained.
func Contains(root, target string) bool {
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}
