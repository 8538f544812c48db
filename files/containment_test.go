package files

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestContains(t *testing.T) {
	tests := []struct {
		root, target string
		want         bool
	}{
		{"/work/demo", "/work/demo", true},
		{"/work/demo", "/work/demo/src/index.js", true},
		{"/work/demo", "/work/demo2", false},
		{"/proj/app", "/proj/app2/main.go", false},
		{"/a/b", "/a/bc", false},
		{"/work/demo", "/work", false},
		{"/work/demo", "/etc/passwd", false},
		{"/", "/etc/passwd", true},
	}
	for _, tt := range tests {
		if got := Contains(tt.root, tt.target); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.root, tt.target, got, tt.want)
		}
	}
}

// genSegment generates a non-empty path segment without separators or dots.
func genSegment() gopter.Gen {
	return gen.AlphaString().Map(func(s string) string {
		if s == "" {
			return "x"
		}
		return s
	})
}

func TestContainsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("joined relative paths stay inside the root", prop.ForAll(
		func(root string, segs []string) bool {
			root = "/" + root
			target := filepath.Join(append([]string{root}, segs...)...)
			return Contains(root, target)
		},
		genSegment(),
		gen.SliceOf(genSegment()),
	))

	properties.Property("a sibling sharing the root as prefix is never contained", prop.ForAll(
		func(root, suffix string) bool {
			root = "/" + root
			return !Contains(root, root+suffix)
		},
		genSegment(),
		genSegment(),
	))

	properties.Property("escaping with .. is never contained", prop.ForAll(
		func(parent, name, other string) bool {
			root := "/" + parent + "/" + name
			target := filepath.Join(root, "..", other+"-"+name)
			return !Contains(root, target)
		},
		genSegment(),
		genSegment(),
		genSegment(),
	))

	properties.TestingRun(t)
}

func TestTruncateChars(t *testing.T) {
	if got := truncateChars("héllo", 2); got != "hé" {
		t.Errorf("expected 'hé', got %q", got)
	}
	if got := truncateChars("abc", 10); got != "abc" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := truncateChars(strings.Repeat("a", 5), 5); got != "aaaaa" {
		t.Errorf("expected exact-length string unchanged, got %q", got)
	}
}
