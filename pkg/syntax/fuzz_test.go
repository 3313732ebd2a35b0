package syntax_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// FuzzParse checks that parsing never panics and that the leaves of the
// tree always reproduce the input.
func FuzzParse(f *testing.F) {
	for _, seed := range losslessInputs {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		tree, err := syntax.Parse(src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		var sb strings.Builder
		for _, leaf := range syntax.Leaves(tree.Root()) {
			sb.WriteString(leaf.Text())
		}
		if sb.String() != src {
			t.Errorf("leaves do not reproduce the source:\n got %q\nwant %q", sb.String(), src)
		}

		start, end := tree.Root().Span()
		if start != 0 || end != len(src) {
			t.Errorf("root span = [%d, %d), want [0, %d)", start, end, len(src))
		}
	})
}
