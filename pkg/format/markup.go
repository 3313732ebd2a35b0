package format

import (
	"strings"
	"unicode"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// isInline reports whether a markup child flows with the surrounding text
// and may be moved across a line break when text is wrapped.
func isInline(k syntax.Kind) bool {
	switch k {
	case syntax.Text, syntax.Emph, syntax.Strong, syntax.Label, syntax.Ref,
		syntax.Link, syntax.SmartQuote, syntax.Escape, syntax.Shorthand:
		return true
	default:
		return false
	}
}

// wrapsText reports whether the markup below n is reflowed.
func (f *formatter) wrapsText(n syntax.Node) bool {
	if !f.cfg.WrapText {
		return false
	}
	switch n.Parent().Kind() {
	case syntax.Heading, syntax.Strong, syntax.Emph:
		return false
	default:
		return true
	}
}

func renderMarkup(f *formatter, n syntax.Node, children []string) string {
	reflow := f.wrapsText(n)
	ctx := newContext(f.cfg)
	kids := n.Children()
	pending := false

	for i, c := range kids {
		text := children[i]

		if f.isPreserved(c) {
			if pending {
				ctx.writeCollapsing(" ")
				pending = false
			}
			ctx.writeRaw(text)
			continue
		}

		switch c.Kind() {
		case syntax.Space:
			if !hasNewline(c.Text()) || (reflow && softBreak(kids, i)) {
				pending = true
				continue
			}
			pending = false
			ctx.writeCollapsing("\n")
			continue
		case syntax.Parbreak:
			pending = false
			ctx.writeCollapsing("\n\n")
			continue
		}

		if pending {
			pending = false
			if reflow && isInline(c.Kind()) && i > 1 && isInline(kids[i-2].Kind()) &&
				canStartLine(c) && f.overflows(ctx.String(), text) {
				ctx.writeCollapsing("\n")
			} else {
				ctx.writeCollapsing(" ")
			}
		}
		ctx.writeRaw(text)
	}

	if pending {
		ctx.writeCollapsing(" ")
	}
	return ctx.String()
}

// softBreak reports whether the newline at kids[i] sits between two inline
// elements and can be joined into a space.
func softBreak(kids []syntax.Node, i int) bool {
	if i == 0 || i+1 >= len(kids) {
		return false
	}
	return isInline(kids[i-1].Kind()) && isInline(kids[i+1].Kind())
}

// overflows reports whether appending " "+word to the current line of out
// exceeds the line length limit.
func (f *formatter) overflows(out, word string) bool {
	cur := lastLineWidth(out, f.tabWidth())
	if cur == 0 {
		return false
	}
	return cur+1+firstLineWidth(word, f.tabWidth()) > f.cfg.MaxLineLength
}

// canStartLine reports whether n keeps its meaning at the start of a line. A
// lone "-" or "=" there would become a list item or a heading.
func canStartLine(n syntax.Node) bool {
	if n.Kind() != syntax.Text {
		return true
	}
	text := n.Text()
	switch text {
	case "-", "+", "/":
		return false
	}
	if strings.Trim(text, "=") == "" {
		return false
	}
	if digits, ok := strings.CutSuffix(text, "."); ok && digits != "" &&
		strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return false
	}
	return true
}

// renderItem formats headings, list items, and enum items as the marker, one
// space, and the body indented under the marker.
func renderItem(f *formatter, n syntax.Node, children []string) string {
	var marker string
	var parts []string

	for i, c := range n.Children() {
		text := children[i]
		switch c.Kind() {
		case syntax.HeadingMarker, syntax.ListMarker, syntax.EnumMarker:
			marker = text
			continue
		case syntax.Space, syntax.Parbreak:
			continue
		case syntax.Markup:
			text = trimSpace(text)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		if followedOnLine(n) {
			return marker + " "
		}
		return marker
	}
	return marker + " " + reindent(strings.Join(parts, " "), f.indent())
}

// followedOnLine reports whether anything but blanks follows n on its last
// source line. A marker fused with such text would stop being a marker.
func followedOnLine(n syntax.Node) bool {
	_, end := n.Span()
	rest := n.Tree().Source[end:]
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimLeft(rest, " \t") != ""
}

// renderTermItem formats "/ term: description". The marker is always
// followed by a space, so an empty term renders as "/ :".
func renderTermItem(f *formatter, n syntax.Node, children []string) string {
	var sb strings.Builder
	bodies := 0
	spaced := false
	for i, c := range n.Children() {
		text := children[i]
		switch c.Kind() {
		case syntax.TermMarker:
			sb.WriteString(text)
			sb.WriteString(" ")
		case syntax.Colon:
			sb.WriteString(text)
			spaced = true
		case syntax.Space, syntax.Parbreak:
		case syntax.Markup:
			bodies++
			text = trimSpace(text)
			if text == "" {
				continue
			}
			if bodies > 1 {
				text = reindent(text, f.indent())
			}
			if spaced {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
			spaced = false
		default:
			if text == "" {
				continue
			}
			if spaced {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
			spaced = true
		}
	}
	return sb.String()
}

// renderContentBlock keeps the spacing style of the block: glued, padded with
// one space, or broken over lines.
func renderContentBlock(f *formatter, n syntax.Node, children []string) string {
	var markup syntax.Node
	var body string
	for i, c := range n.Children() {
		if c.Kind() == syntax.Markup {
			markup, body = c, children[i]
		}
	}

	if !markup.Valid() || markup.IsLeaf() {
		return "[]"
	}
	if onlyWhitespace(markup) {
		return "[ ]"
	}

	first := markup.Child(0)
	breaks := first.Kind() == syntax.Parbreak ||
		(first.Kind() == syntax.Space && (hasNewline(first.Text()) || endsWithLineComment(markup)))

	switch {
	case f.isPreserved(first):
		return "[" + body + "]"
	case breaks || f.forced[n.ID()]:
		ctx := newContext(f.cfg)
		ctx.writeRaw("[\n" + ctx.indent())
		ctx.writeRawReindented(trimSpace(body))
		ctx.writeRaw("\n]")
		return ctx.String()
	case first.Kind() == syntax.Space:
		return "[ " + trimSpace(body) + " ]"
	default:
		return "[" + body + "]"
	}
}

// endsWithLineComment reports whether the last non-whitespace child of n is
// a line comment, which must be followed by a newline.
func endsWithLineComment(n syntax.Node) bool {
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		switch kids[i].Kind() {
		case syntax.Space, syntax.Parbreak:
			continue
		case syntax.LineComment:
			return true
		default:
			return false
		}
	}
	return false
}

func onlyWhitespace(n syntax.Node) bool {
	for _, c := range n.Children() {
		if c.Kind() != syntax.Space && c.Kind() != syntax.Parbreak {
			return false
		}
	}
	return true
}
