// Package files resolves user-referenced files against a project root and
// reads them for prompt context.
//
// Information Hiding:
// - Path validation and containment checks hidden
// - Canonical project roots cached in a bounded LRU
// - Per-reference failures turned into error content, never returned
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxContentChars caps the characters kept from each file.
const MaxContentChars = 10000

// DefaultRootCacheSize is the number of canonical roots kept when no size is given.
const DefaultRootCacheSize = 128

// Reference is a caller-supplied, untrusted relative file path.
type Reference struct {
	Path string `json:"path"`
}

// Content is the result of reading one Reference. On failure Content holds a
// human-readable error message and Err is set.
type Content struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
	Err       error  `json:"-"`
}

// Failed reports whether the reference could not be read.
func (c Content) Failed() bool {
	return c.Err != nil
}

// Language returns the code-fence language tag for the content.
func (c Content) Language() string {
	if c.Extension == "" {
		return "text"
	}
	return c.Extension
}

// Reader reads referenced files inside project roots.
// It is safe for concurrent use.
type Reader struct {
	roots    *lru.Cache[string, string]
	maxChars int
	logger   *slog.Logger
}

// NewReader creates a reader caching up to cacheSize canonical roots.
// If cacheSize <= 0, DefaultRootCacheSize is used.
func NewReader(cacheSize int) *Reader {
	if cacheSize <= 0 {
		cacheSize = DefaultRootCacheSize
	}
	// lru.New only fails for non-positive sizes.
	roots, _ := lru.New[string, string](cacheSize)
	return &Reader{
		roots:    roots,
		maxChars: MaxContentChars,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithMaxChars overrides the truncation cap.
func (r *Reader) WithMaxChars(n int) *Reader {
	if n > 0 {
		r.maxChars = n
	}
	return r
}

// WithLogger sets the logger used for rejected references.
func (r *Reader) WithLogger(logger *slog.Logger) *Reader {
	r.logger = logger
	return r
}

// Forget drops the cached canonical form of root, e.g. after a project moved.
func (r *Reader) Forget(root string) {
	r.roots.Remove(root)
}

// ReadAll resolves and reads every reference against root. The result has
// the same length and order as refs; failures are reported per entry.
func (r *Reader) ReadAll(ctx context.Context, root string, refs []Reference) []Content {
	results := make([]Content, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref Reference) {
			defer wg.Done()
			results[i] = r.Read(ctx, root, ref)
		}(i, ref)
	}
	wg.Wait()

	return results
}

// Read resolves and reads a single reference against root.
func (r *Reader) Read(ctx context.Context, root string, ref Reference) Content {
	ext := extension(ref.Path)

	if ref.Path == "" {
		return r.failure(ref, ext, ErrEmptyPath)
	}
	if isAbsolute(ref.Path) {
		return r.failure(ref, ext, ErrAbsolutePath)
	}

	canonRoot, err := r.canonicalRoot(root)
	if err != nil {
		return r.failure(ref, ext, &FileAccessError{Path: ref.Path, Err: fmt.Errorf("project root unavailable: %w", err)})
	}

	// Lexical check first so traversal is rejected without touching the filesystem.
	target := filepath.Join(canonRoot, filepath.FromSlash(ref.Path))
	if !Contains(canonRoot, target) {
		return r.failure(ref, ext, ErrOutsideRoot)
	}

	if err := ctx.Err(); err != nil {
		return r.failure(ref, ext, &FileAccessError{Path: ref.Path, Err: err})
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		r.invalidateIfGone(root, canonRoot)
		return r.failure(ref, ext, &FileAccessError{Path: ref.Path, Err: err})
	}
	if !Contains(canonRoot, resolved) {
		return r.failure(ref, ext, ErrOutsideRoot)
	}

	text, err := r.readText(resolved)
	if err != nil {
		return r.failure(ref, ext, &FileAccessError{Path: ref.Path, Err: err})
	}

	return Content{Path: ref.Path, Content: text, Extension: ext}
}

// readText reads a regular file and truncates it to maxChars characters.
func (r *Reader) readText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegular
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(r.maxChars)*utf8.UTFMax))
	if err != nil {
		return "", err
	}
	return truncateChars(string(data), r.maxChars), nil
}

// canonicalRoot returns the absolute, symlink-free form of root.
func (r *Reader) canonicalRoot(root string) (string, error) {
	if canon, ok := r.roots.Get(root); ok {
		return canon, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	r.roots.Add(root, canon)
	return canon, nil
}

// invalidateIfGone evicts a cached root that no longer exists on disk.
func (r *Reader) invalidateIfGone(root, canonRoot string) {
	if _, err := os.Stat(canonRoot); err != nil {
		r.roots.Remove(root)
	}
}

func (r *Reader) failure(ref Reference, ext string, err error) Content {
	r.logger.Warn("file reference rejected", "path", ref.Path, "error", err)
	return Content{
		Path:      ref.Path,
		Content:   describe(err),
		Extension: ext,
		Err:       err,
	}
}

// describe renders err as the content string shown to the provider.
func describe(err error) string {
	switch {
	case errors.Is(err, ErrAbsolutePath):
		return "Error: absolute paths are not allowed"
	case errors.Is(err, ErrOutsideRoot):
		return "Error: file path is outside of the project directory"
	case errors.Is(err, os.ErrNotExist):
		return "Error reading file: file not found"
	case errors.Is(err, os.ErrPermission):
		return "Error reading file: permission denied"
	case errors.Is(err, ErrNotRegular):
		return "Error reading file: not a regular file"
	default:
		return "Error reading file: " + err.Error()
	}
}

// isAbsolute reports whether path is absolute on any platform we serve.
func isAbsolute(path string) bool {
	return filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`)
}

// extension returns the lower-cased extension of path without its dot.
func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// truncateChars keeps at most n characters of s.
func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
