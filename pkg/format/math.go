package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// renderEquation keeps inline equations glued to their dollars. Display
// equations get one space inside the dollars, or their own lines when the
// source opened them with a newline.
func renderEquation(f *formatter, n syntax.Node, children []string) string {
	kids := n.Children()
	var math string
	hasMath := false
	for i, c := range kids {
		if c.Kind() == syntax.Math {
			math, hasMath = children[i], true
		}
	}

	if len(kids) < 2 || !hasMath {
		return renderGlued(f, n, children)
	}
	open, closing := kids[1], kids[len(kids)-2]
	display := open.Kind() == syntax.Space && closing.Kind() == syntax.Space && open.ID() != closing.ID()

	switch {
	case strings.TrimSpace(math) == "":
		for _, c := range kids {
			if c.Kind() == syntax.Space {
				return "$ $"
			}
		}
		return "$$"
	case !display:
		return renderGlued(f, n, children)
	case hasNewline(open.Text()):
		indent := f.indent()
		return "$\n" + indent + reindent(trimMath(math), indent) + "\n$"
	default:
		return "$ " + trimMath(math) + " $"
	}
}

// trimMath trims the body of a display equation. Leading blanks on the first
// line are alignment padding and stay.
func trimMath(math string) string {
	body := strings.TrimRight(strings.TrimLeft(math, "\n"), " \n")
	if trimSpace(body) == "" {
		return ""
	}
	return body
}

// mathStart is the column the first line of an equation body starts at,
// relative to the opening dollar sign.
func mathStart(n syntax.Node) int {
	eq := n.Parent()
	if !eq.Valid() || eq.Kind() != syntax.Equation || eq.Len() < 2 {
		return 0
	}
	open := eq.Child(1)
	switch {
	case open.Kind() != syntax.Space:
		return 1
	case hasNewline(open.Text()):
		return 0
	default:
		return 2
	}
}

type mathToken struct {
	text    string
	align   bool
	newline bool
}

// renderMath formats the content of an equation. Whitespace runs become one
// space or one newline, and alignment points on consecutive lines are padded
// into columns.
func renderMath(f *formatter, n syntax.Node, children []string) string {
	kids := n.Children()
	tokens := make([]mathToken, 0, len(kids))
	aligned := false

	for i, c := range kids {
		text := children[i]
		switch {
		case f.isPreserved(c):
			tokens = append(tokens, mathToken{text: text})
		case c.Kind() == syntax.Space && hasNewline(c.Text()):
			tokens = append(tokens, mathToken{text: "\n", newline: true})
		case c.Kind() == syntax.Space:
			tokens = append(tokens, mathToken{text: " "})
		case c.Kind() == syntax.MathAlignPoint:
			tokens = append(tokens, mathToken{text: text, align: true})
			aligned = true
		default:
			tokens = append(tokens, mathToken{text: text})
		}
	}

	if !aligned {
		var sb strings.Builder
		for _, t := range tokens {
			sb.WriteString(t.text)
		}
		return sb.String()
	}
	return f.alignMath(tokens, mathStart(n))
}

// alignMath pads the text before every alignment point so that the n-th
// points of all lines share a column. The first line starts at column start.
func (f *formatter) alignMath(tokens []mathToken, start int) string {
	tab := f.tabWidth()

	var columns []int
	pos, idx := start, 0
	for _, t := range tokens {
		switch {
		case t.newline:
			pos, idx = 0, 0
		case t.align:
			switch {
			case idx >= len(columns):
				columns = append(columns, pos)
			case columns[idx] < pos:
				shift := pos - columns[idx]
				for j := idx; j < len(columns); j++ {
					columns[j] += shift
				}
			default:
				pos = columns[idx]
			}
			pos += lineWidth(t.text, tab)
			idx++
		default:
			pos = advance(pos, t.text, tab)
		}
	}

	var sb strings.Builder
	pos, idx = start, 0
	for _, t := range tokens {
		switch {
		case t.newline:
			sb.WriteString(t.text)
			pos, idx = 0, 0
		case t.align:
			if pad := columns[idx] - pos; pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
				pos += pad
			}
			sb.WriteString(t.text)
			pos += lineWidth(t.text, tab)
			idx++
		default:
			sb.WriteString(t.text)
			pos = advance(pos, t.text, tab)
		}
	}
	return sb.String()
}

// advance returns the column after writing s at column pos.
func advance(pos int, s string, tab int) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return lineWidth(s[i+1:], tab)
	}
	return pos + lineWidth(s, tab)
}
