package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// renderBinary formats "lhs op rhs" with single spaces around the operator.
// Inside parentheses a chain that is too long is broken before each
// operator.
func renderBinary(f *formatter, n syntax.Node, children []string) string {
	kids := n.Children()
	lhs := -1
	for i, c := range kids {
		if !c.Kind().IsTrivia() {
			lhs = i
			break
		}
	}
	if lhs < 0 {
		return renderGlued(f, n, children)
	}

	// The operator tokens and comments after the left operand, then the
	// right operand as the last element.
	var parts []string
	var kinds []syntax.Kind
	for i := lhs + 1; i < len(kids); i++ {
		if kids[i].Kind() == syntax.Space || children[i] == "" {
			continue
		}
		parts = append(parts, children[i])
		kinds = append(kinds, kids[i].Kind())
	}

	var sb strings.Builder
	sb.WriteString(children[lhs])
	sep := " "
	comment := false
	for i, p := range parts {
		if f.forced[n.ID()] && i == 0 && !comment {
			sep = "\n"
		}
		sb.WriteString(sep)
		sb.WriteString(p)
		sep = " "
		if kinds[i] == syntax.LineComment {
			sep = "\n"
			comment = true
		}
	}
	out := sb.String()

	if !comment && !f.forced[n.ID()] && inBreakableParens(n) &&
		f.width(out) >= f.cfg.MaxLineLength {
		for m := n; m.Kind() == syntax.Binary; m = m.Child(0) {
			f.forced[m.ID()] = true
		}
		return f.render(n)
	}
	return out
}

// inBreakableParens reports whether n is a parenthesized binary chain or
// the left spine of one.
func inBreakableParens(n syntax.Node) bool {
	for {
		parent := n.Parent()
		switch parent.Kind() {
		case syntax.Parenthesized:
			return true
		case syntax.Binary:
			if parent.Child(0).ID() != n.ID() {
				return false
			}
			n = parent
		default:
			return false
		}
	}
}
