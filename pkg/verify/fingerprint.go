package verify

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// Fingerprint returns the structural signature of a Typst document: the
// pre-order sequence of node kinds with the words of each leaf. Whitespace,
// paragraph breaks and trailing commas are left out, so two documents that
// differ only in layout share a fingerprint. Raw blocks and strings keep their
// exact text.
func Fingerprint(src string) ([]string, error) {
	tree, err := syntax.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var out []string
	err = syntax.Walk(tree.Root(), func(n syntax.Node) error {
		kind := n.Kind()
		switch {
		case kind == syntax.Space || kind == syntax.Parbreak:
			return nil
		case kind == syntax.Comma && trailingComma(n):
			return nil
		case !n.IsLeaf():
			out = append(out, kind.String())
		case kind == syntax.Raw || kind == syntax.Str:
			out = append(out, kind.String()+":"+n.Text())
		default:
			words := strings.Fields(n.Text())
			if len(words) == 0 {
				out = append(out, kind.String())
			}
			for _, w := range words {
				out = append(out, kind.String()+":"+w)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// trailingComma reports whether only trivia separates the comma from the
// end of its list.
func trailingComma(n syntax.Node) bool {
	for next := n.NextSibling(); next.Valid(); next = next.NextSibling() {
		if !next.Kind().IsTrivia() {
			return next.Kind() == syntax.RightParen
		}
	}
	return true
}

// firstDifference describes the first position where two fingerprints
// disagree, or returns "" when they are equal.
func firstDifference(want, got []string) string {
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			return fmt.Sprintf("node %d: expected %s, found %s", i, want[i], got[i])
		}
	}
	switch {
	case len(want) > len(got):
		return fmt.Sprintf("node %d: expected %s, found end of document", len(got), want[len(got)])
	case len(got) > len(want):
		return fmt.Sprintf("node %d: expected end of document, found %s", len(want), got[len(want)])
	default:
		return ""
	}
}
