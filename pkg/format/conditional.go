package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// renderConditional formats an if/else chain. When some code block bodies of
// the chain break over lines and others do not, all of them are broken.
func renderConditional(f *formatter, n syntax.Node, children []string) string {
	out := renderSpaced(f, n, children)
	if n.Parent().Kind() == syntax.Conditional || f.forced[n.ID()] {
		return out
	}

	bodies := chainBodies(n, nil)
	broken, tight := 0, 0
	for _, b := range bodies {
		text := f.render(b)
		switch {
		case text == "{}" || text == "{ }":
		case strings.Contains(text, "\n"):
			broken++
		default:
			tight++
		}
	}
	if broken == 0 || tight == 0 {
		return out
	}

	f.forced[n.ID()] = true
	for _, b := range bodies {
		f.forced[b.ID()] = true
	}
	return f.render(n)
}

// chainBodies collects the code block bodies of every branch of the chain.
func chainBodies(n syntax.Node, acc []syntax.Node) []syntax.Node {
	seenCondition := false
	for _, c := range n.Children() {
		switch k := c.Kind(); {
		case k.IsTrivia() || k == syntax.If || k == syntax.Else:
		case !seenCondition:
			seenCondition = true
		case k == syntax.CodeBlock:
			acc = append(acc, c)
		case k == syntax.Conditional:
			acc = chainBodies(c, acc)
		}
	}
	return acc
}
