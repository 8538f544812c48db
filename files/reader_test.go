package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

// newProject creates a canonical temporary project root with the given files.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

func TestReadExistingFile(t *testing.T) {
	root := newProject(t, map[string]string{"src/index.js": "console.log(1)"})
	reader := NewReader(0)

	got := reader.Read(context.Background(), root, Reference{Path: "src/index.js"})

	if got.Failed() {
		t.Fatalf("expected success, got error: %v", got.Err)
	}
	want := Content{Path: "src/index.js", Content: "console.log(1)", Extension: "js"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestReadExtensionLowercased(t *testing.T) {
	root := newProject(t, map[string]string{"README.MD": "# hi", "Makefile": "all:"})
	reader := NewReader(0)

	md := reader.Read(context.Background(), root, Reference{Path: "README.MD"})
	if md.Extension != "md" {
		t.Errorf("expected extension 'md', got %q", md.Extension)
	}
	mk := reader.Read(context.Background(), root, Reference{Path: "Makefile"})
	if mk.Extension != "" {
		t.Errorf("expected empty extension, got %q", mk.Extension)
	}
	if mk.Language() != "text" {
		t.Errorf("expected language 'text', got %q", mk.Language())
	}
}

func TestReadRejectsTraversal(t *testing.T) {
	parent := newProject(t, map[string]string{
		"secret.txt":       "top secret",
		"demo/src/main.go": "package main",
	})
	root := filepath.Join(parent, "demo")
	reader := NewReader(0)

	for _, path := range []string{"../secret.txt", "src/../../secret.txt", "../../etc/passwd", ".."} {
		got := reader.Read(context.Background(), root, Reference{Path: path})
		if !errors.Is(got.Err, ErrOutsideRoot) {
			t.Errorf("%s: expected ErrOutsideRoot, got %v", path, got.Err)
		}
		if !strings.Contains(got.Content, "outside of the project directory") {
			t.Errorf("%s: unexpected content %q", path, got.Content)
		}
	}
}

func TestReadRejectsTraversalWithoutTouchingDisk(t *testing.T) {
	// The root does not need to contain the target for the lexical check to reject it.
	root := newProject(t, nil)
	reader := NewReader(0)

	got := reader.Read(context.Background(), root, Reference{Path: "../does-not-exist.txt"})
	if !errors.Is(got.Err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", got.Err)
	}
}

func TestReadRejectsAbsolutePaths(t *testing.T) {
	root := newProject(t, map[string]string{"a.txt": "inside"})
	reader := NewReader(0)

	for _, path := range []string{"/etc/passwd", filepath.Join(root, "a.txt")} {
		got := reader.Read(context.Background(), root, Reference{Path: path})
		if !errors.Is(got.Err, ErrAbsolutePath) {
			t.Errorf("%s: expected ErrAbsolutePath, got %v", path, got.Err)
		}
		if got.Content == "inside" {
			t.Errorf("%s: absolute path must never be read", path)
		}
	}
}

func TestReadRejectsSiblingWithSharedPrefix(t *testing.T) {
	parent := newProject(t, map[string]string{
		"app/main.go":   "package main",
		"app2/creds.go": "package creds",
	})
	reader := NewReader(0)

	got := reader.Read(context.Background(), filepath.Join(parent, "app"), Reference{Path: "../app2/creds.go"})
	if !errors.Is(got.Err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", got.Err)
	}
}

func TestReadSymlinkEscapingRoot(t *testing.T) {
	parent := newProject(t, map[string]string{
		"outside.txt":   "leaked",
		"proj/keep.txt": "kept",
	})
	root := filepath.Join(parent, "proj")
	if err := os.Symlink(filepath.Join(parent, "outside.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(parent, filepath.Join(root, "up")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	reader := NewReader(0)

	for _, path := range []string{"link.txt", "up/outside.txt"} {
		got := reader.Read(context.Background(), root, Reference{Path: path})
		if !errors.Is(got.Err, ErrOutsideRoot) {
			t.Errorf("%s: expected ErrOutsideRoot, got %v", path, got.Err)
		}
		if got.Content == "leaked" {
			t.Errorf("%s: content outside the root was read", path)
		}
	}
}

func TestReadSymlinkInsideRoot(t *testing.T) {
	root := newProject(t, map[string]string{"real/data.json": `{"ok":true}`})
	if err := os.Symlink(filepath.Join(root, "real", "data.json"), filepath.Join(root, "alias.json")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	reader := NewReader(0)

	got := reader.Read(context.Background(), root, Reference{Path: "alias.json"})
	if got.Failed() {
		t.Fatalf("expected success, got %v", got.Err)
	}
	if got.Content != `{"ok":true}` {
		t.Errorf("unexpected content %q", got.Content)
	}
}

func TestReadThroughSymlinkedRoot(t *testing.T) {
	real := newProject(t, map[string]string{"main.py": "print(1)"})
	linkRoot := filepath.Join(t.TempDir(), "project-link")
	if err := os.Symlink(real, linkRoot); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	reader := NewReader(0)

	got := reader.Read(context.Background(), linkRoot, Reference{Path: "main.py"})
	if got.Failed() {
		t.Fatalf("expected success through symlinked root, got %v", got.Err)
	}
	if got.Content != "print(1)" {
		t.Errorf("unexpected content %q", got.Content)
	}
}

func TestReadTruncatesToMaxChars(t *testing.T) {
	long := strings.Repeat("é", MaxContentChars+500)
	root := newProject(t, map[string]string{"big.txt": long})
	reader := NewReader(0)

	got := reader.Read(context.Background(), root, Reference{Path: "big.txt"})
	if got.Failed() {
		t.Fatalf("unexpected error: %v", got.Err)
	}
	if n := utf8.RuneCountInString(got.Content); n != MaxContentChars {
		t.Errorf("expected %d characters, got %d", MaxContentChars, n)
	}
	if !utf8.ValidString(got.Content) {
		t.Error("truncation split a multi-byte character")
	}
}

func TestReadWithMaxChars(t *testing.T) {
	root := newProject(t, map[string]string{"a.txt": "abcdefgh"})
	reader := NewReader(0).WithMaxChars(3)

	got := reader.Read(context.Background(), root, Reference{Path: "a.txt"})
	if got.Content != "abc" {
		t.Errorf("expected 'abc', got %q", got.Content)
	}
}

func TestReadIOFailures(t *testing.T) {
	root := newProject(t, map[string]string{"dir/file.txt": "x"})
	reader := NewReader(0)

	tests := []struct {
		path    string
		target  error
		content string
	}{
		{"missing.txt", os.ErrNotExist, "file not found"},
		{"dir", ErrNotRegular, "not a regular file"},
		{"", ErrEmptyPath, "file path is empty"},
	}
	for _, tt := range tests {
		got := reader.Read(context.Background(), root, Reference{Path: tt.path})
		if !errors.Is(got.Err, tt.target) {
			t.Errorf("%q: expected %v, got %v", tt.path, tt.target, got.Err)
		}
		if !strings.Contains(got.Content, tt.content) {
			t.Errorf("%q: expected content to mention %q, got %q", tt.path, tt.content, got.Content)
		}
	}
}

func TestReadPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := newProject(t, map[string]string{"locked.txt": "secret"})
	if err := os.Chmod(filepath.Join(root, "locked.txt"), 0); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	reader := NewReader(0)

	got := reader.Read(context.Background(), root, Reference{Path: "locked.txt"})
	if !errors.Is(got.Err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", got.Err)
	}
}

func TestReadAllPreservesOrderAndIsolatesFailures(t *testing.T) {
	root := newProject(t, map[string]string{
		"a.go":     "package a",
		"b/b.ts":   "export const b = 1",
		"c/c.yaml": "c: 1",
	})
	reader := NewReader(0)

	refs := []Reference{
		{Path: "a.go"},
		{Path: "../escape.txt"},
		{Path: "b/b.ts"},
		{Path: "/etc/hosts"},
		{Path: "missing.md"},
		{Path: "c/c.yaml"},
	}
	results := reader.ReadAll(context.Background(), root, refs)

	if len(results) != len(refs) {
		t.Fatalf("expected %d results, got %d", len(refs), len(results))
	}
	for i, ref := range refs {
		if results[i].Path != ref.Path {
			t.Errorf("result %d: expected path %q, got %q", i, ref.Path, results[i].Path)
		}
	}
	wantFailed := []bool{false, true, false, true, true, false}
	for i, want := range wantFailed {
		if results[i].Failed() != want {
			t.Errorf("result %d (%s): expected failed=%v, got %v", i, refs[i].Path, want, results[i].Failed())
		}
	}
	if results[2].Content != "export const b = 1" || results[2].Extension != "ts" {
		t.Errorf("unexpected nested result %+v", results[2])
	}
}

func TestReadMissingRoot(t *testing.T) {
	reader := NewReader(0)
	got := reader.Read(context.Background(), filepath.Join(t.TempDir(), "nope"), Reference{Path: "a.txt"})
	if !got.Failed() {
		t.Fatal("expected failure for missing root")
	}
	var accessErr *FileAccessError
	if !errors.As(got.Err, &accessErr) {
		t.Errorf("expected FileAccessError, got %T", got.Err)
	}
}

func TestRootCacheInvalidatedWhenRootMoves(t *testing.T) {
	base := newProject(t, map[string]string{"v1/a.txt": "one", "v2/a.txt": "two"})
	link := filepath.Join(base, "current")
	if err := os.Symlink(filepath.Join(base, "v1"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	reader := NewReader(4)

	if got := reader.Read(context.Background(), link, Reference{Path: "a.txt"}); got.Content != "one" {
		t.Fatalf("expected 'one', got %q (%v)", got.Content, got.Err)
	}

	// Move the project: the cached canonical root disappears.
	if err := os.Rename(filepath.Join(base, "v1"), filepath.Join(base, "old")); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if err := os.Remove(link); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := os.Symlink(filepath.Join(base, "v2"), link); err != nil {
		t.Fatalf("symlink failed: %v", err)
	}

	if got := reader.Read(context.Background(), link, Reference{Path: "a.txt"}); !got.Failed() {
		t.Fatalf("expected the stale root to fail once, got %q", got.Content)
	}
	if got := reader.Read(context.Background(), link, Reference{Path: "a.txt"}); got.Content != "two" {
		t.Errorf("expected 'two' after invalidation, got %q (%v)", got.Content, got.Err)
	}
}

func TestForget(t *testing.T) {
	root := newProject(t, map[string]string{"a.txt": "x"})
	reader := NewReader(2)
	reader.Read(context.Background(), root, Reference{Path: "a.txt"})
	if reader.roots.Len() != 1 {
		t.Fatalf("expected one cached root, got %d", reader.roots.Len())
	}
	reader.Forget(root)
	if reader.roots.Len() != 0 {
		t.Errorf("expected cache to be empty, got %d", reader.roots.Len())
	}
}

func TestReadCanceledContext(t *testing.T) {
	root := newProject(t, map[string]string{"a.txt": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewReader(0).Read(ctx, root, Reference{Path: "a.txt"})
	if !errors.Is(got.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", got.Err)
	}
}
