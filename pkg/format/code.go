package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// renderLeaf formats tokens. Whitespace is normalized; everything else is
// kept, and tokens spanning lines are protected from reindentation.
func renderLeaf(f *formatter, n syntax.Node, _ []string) string {
	text := n.Text()
	switch n.Kind() {
	case syntax.Space:
		switch newlineCount(text) {
		case 0:
			return " "
		case 1:
			return "\n"
		default:
			return "\n\n"
		}
	case syntax.Parbreak:
		return "\n\n"
	}
	if hasNewline(text) {
		return f.protect(text)
	}
	return text
}

// renderGlued concatenates the children, collapsing whitespace runs.
func renderGlued(f *formatter, n syntax.Node, children []string) string {
	ctx := newContext(f.cfg)
	for i, c := range n.Children() {
		if c.Kind() == syntax.Space && !f.isPreserved(c) {
			ctx.writeCollapsing(children[i])
			continue
		}
		ctx.writeRaw(children[i])
	}
	return ctx.String()
}

// renderCode formats a sequence of code expressions. Blank lines are capped
// at one and leading or trailing whitespace is dropped.
func renderCode(f *formatter, n syntax.Node, children []string) string {
	ctx := newContext(f.cfg)
	kids := n.Children()
	for i, c := range kids {
		if f.isPreserved(c) {
			ctx.writeRaw(children[i])
			continue
		}
		if c.Kind() == syntax.Space {
			if i == 0 || i == len(kids)-1 {
				continue
			}
			ctx.writeCollapsing(children[i])
			continue
		}
		ctx.writeRaw(children[i])
	}
	return ctx.String()
}

// renderCodeBlock formats "{ body }" on one line when it fits and holds a
// single line, and otherwise breaks the body onto indented lines.
func renderCodeBlock(f *formatter, n syntax.Node, children []string) string {
	ctx := newContext(f.cfg)
	sawSpace, sawNewline, lineComment := false, false, false

	for i, c := range n.Children() {
		switch c.Kind() {
		case syntax.LeftBrace, syntax.RightBrace:
			continue
		case syntax.Space:
			sawSpace = true
			sawNewline = sawNewline || hasNewline(c.Text())
			ctx.writeCollapsing(children[i])
			continue
		case syntax.LineComment:
			lineComment = true
		case syntax.Code:
			lineComment = lineComment || c.Contains(syntax.LineComment)
		}
		ctx.writeRaw(children[i])
	}

	body := trimSpace(ctx.String())
	if body == "" {
		if sawSpace {
			return "{ }"
		}
		return "{}"
	}

	parent := n.Parent().Kind()
	broken := f.forced[n.ID()] || sawNewline || lineComment ||
		strings.Contains(body, "\n") ||
		parent == syntax.ForLoop || parent == syntax.WhileLoop
	if !broken {
		tight := "{ " + body + " }"
		if f.width(tight) < f.cfg.MaxLineLength {
			return tight
		}
	}

	out := newContext(f.cfg)
	out.writeRaw("{\n" + out.indent())
	out.writeRawReindented(body)
	out.writeRaw("\n}")
	return out.String()
}

// renderSpaced joins the significant children with single spaces. It serves
// keyword constructs such as let, set, show, and for.
func renderSpaced(_ *formatter, n syntax.Node, children []string) string {
	var sb strings.Builder
	prev := syntax.Error
	afterComment := false

	for i, c := range n.Children() {
		k := c.Kind()
		text := children[i]
		if k == syntax.Space || k == syntax.Parbreak || text == "" {
			continue
		}
		if sb.Len() > 0 {
			switch {
			case afterComment:
				sb.WriteByte('\n')
			case !gluedTo(prev, k):
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(text)
		prev = k
		afterComment = k == syntax.LineComment
	}
	return sb.String()
}

// gluedTo reports whether next attaches to prev without a space.
func gluedTo(prev, next syntax.Kind) bool {
	switch next {
	case syntax.Args, syntax.Params, syntax.Colon, syntax.Comma, syntax.RightParen, syntax.Dot:
		return true
	}
	switch prev {
	case syntax.LeftParen, syntax.Dots, syntax.Dot:
		return true
	}
	return false
}

// renderUnary formats "-x", "+x", and "not x".
func renderUnary(f *formatter, n syntax.Node, children []string) string {
	var op, operand string
	for i, c := range n.Children() {
		switch {
		case c.Kind() == syntax.Space:
		case c.Kind().IsComment():
			return renderGlued(f, n, children)
		case op == "":
			op = children[i]
		default:
			operand = children[i]
		}
	}
	if op == "not" {
		return "not " + operand
	}
	return op + operand
}
