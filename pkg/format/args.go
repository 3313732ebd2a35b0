package format

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// packWidth is the widest a packed line of arguments grows before a new line
// is started.
const packWidth = 30

// packCount is the most arguments a packed line holds.
const packCount = 3

// tableFunctions are callees whose positional arguments are laid out as rows.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tableFunctions = map[string]bool{
	"table":  true,
	"grid":   true,
	"tablex": true,
	"gridx":  true,
}

// listEntry is one line candidate of a parenthesized list: an item, or a
// comment that stood on its own line.
type listEntry struct {
	text  string
	item  bool
	node  syntax.Node
	trail string
	// trailFirst is set when the trailing comment came before the item's
	// comma in the source.
	trailFirst bool
}

// parenList is the decomposed content of a parenthesized list.
type parenList struct {
	entries []listEntry
	// lineComment is set when any comment needs a newline after it.
	lineComment bool
	// ownLine is set when a comment stood alone on its line.
	ownLine bool
	// colon is set for the empty dictionary "(:)".
	colon bool
	// suffix is the text after the closing parenthesis, such as trailing
	// content blocks of a call.
	suffix string
}

func (l *parenList) items() []listEntry {
	var items []listEntry
	for _, e := range l.entries {
		if e.item {
			items = append(items, e)
		}
	}
	return items
}

// renderArgs formats argument lists, parameter lists, arrays, dictionaries,
// destructuring patterns, and parenthesized expressions.
func renderArgs(f *formatter, n syntax.Node, children []string) string {
	kids := n.Children()
	if len(kids) == 0 || kids[0].Kind() != syntax.LeftParen {
		return renderGlued(f, n, children)
	}

	list, ok := splitList(kids, children)
	if !ok {
		return renderGlued(f, n, children)
	}

	items := list.items()
	if len(list.entries) == 0 {
		if list.colon {
			return "(:)" + list.suffix
		}
		return "()" + list.suffix
	}

	tight := f.tightList(n, items)
	multiline := false
	for _, e := range list.entries {
		multiline = multiline || strings.Contains(e.text, "\n")
	}

	if n.Kind() == syntax.Args && len(items) >= 4 && !multiline &&
		!list.lineComment && !list.ownLine && len(items) == len(list.entries) && !hasTrail(items) {
		if callee, ok := tableCallee(n); ok && tableFunctions[callee] {
			return f.tableList(items) + list.suffix
		}
	}

	broken := f.forced[n.ID()] || list.lineComment || list.ownLine
	if len(items) > 1 || (n.Kind() == syntax.Parenthesized && multiline) {
		broken = broken || multiline || f.calleeWidth(n)+f.width(tight) >= f.cfg.MaxLineLength
	}
	if !broken {
		return tight + list.suffix
	}

	if f.cfg.PackConsecutiveArgs && n.Kind() != syntax.Parenthesized {
		return f.packedList(list.entries) + list.suffix
	}
	return f.brokenList(n, list.entries) + list.suffix
}

// splitList collects the items and comments between the parentheses. A
// block comment after a comma leads the next item. It reports false when a
// comment sits between an item and its comma in a way the layouts cannot
// keep.
func splitList(kids []syntax.Node, children []string) (parenList, bool) {
	var list parenList

	closing := -1
	for i, c := range kids {
		if c.Kind() == syntax.RightParen {
			closing = i
			break
		}
	}
	if closing < 0 {
		return list, false
	}

	var lead []string
	sawNewline, sawComma, sawItem, unkept := false, false, false, false
	for i := 1; i < closing; i++ {
		c := kids[i]
		text := children[i]
		switch c.Kind() {
		case syntax.Space:
			sawNewline = sawNewline || hasNewline(c.Text())
		case syntax.Comma:
			if unkept {
				return list, false
			}
			sawComma = true
		case syntax.Colon:
			list.colon = true
		case syntax.LineComment, syntax.BlockComment:
			line := c.Kind() == syntax.LineComment
			if line {
				list.lineComment = true
			}
			last := len(list.entries) - 1
			attach := last >= 0 && !sawNewline && list.entries[last].item && list.entries[last].trail == ""
			switch {
			case attach && (!sawComma || line):
				if len(lead) > 0 {
					text = strings.Join(lead, " ") + " " + text
					lead = nil
				}
				list.entries[last].trail = text
				list.entries[last].trailFirst = !sawComma
				unkept = unkept || (!sawComma && line)
				continue
			case sawItem && sawComma && !sawNewline && !line:
				lead = append(lead, text)
				continue
			}
			if len(lead) > 0 {
				text = strings.Join(lead, " ") + " " + text
				lead = nil
			}
			if sawNewline || last < 0 {
				list.ownLine = true
			}
			unkept = unkept || (sawItem && !sawComma)
			list.entries = append(list.entries, listEntry{text: text})
		default:
			if len(lead) > 0 {
				text = strings.Join(lead, " ") + " " + text
				lead = nil
			}
			list.entries = append(list.entries, listEntry{text: text, item: true, node: c})
			sawNewline, sawComma, sawItem, unkept = false, false, true, false
		}
	}
	if len(lead) > 0 {
		last := len(list.entries) - 1
		trail := strings.Join(lead, " ")
		if list.entries[last].trail != "" {
			trail = list.entries[last].trail + " " + trail
		}
		list.entries[last].trail = trail
	}

	var suffix strings.Builder
	for i := closing + 1; i < len(kids); i++ {
		suffix.WriteString(children[i])
	}
	list.suffix = suffix.String()
	return list, true
}

// writeEntry writes one entry of a broken list with its comma and trailing
// comment in source order. A line comment always ends the line.
func writeEntry(ctx *fmtContext, e listEntry, comma bool) {
	ctx.writeRawReindented(e.text)
	before := e.trailFirst && !strings.HasPrefix(e.trail, "//")
	if e.trail != "" && before {
		ctx.writeRaw(" " + e.trail)
	}
	if comma {
		ctx.writeRaw(",")
	}
	if e.trail != "" && !before {
		ctx.writeRaw(" " + e.trail)
	}
}

func hasTrail(items []listEntry) bool {
	for _, e := range items {
		if e.trail != "" {
			return true
		}
	}
	return false
}

// tightList renders the items on one line.
func (f *formatter) tightList(n syntax.Node, items []listEntry) string {
	parts := make([]string, len(items))
	for i, e := range items {
		parts[i] = e.text
		if e.trail != "" {
			parts[i] += " " + e.trail
		}
	}

	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(strings.Join(parts, ", "))
	if len(items) == 1 && (n.Kind() == syntax.Array || n.Kind() == syntax.Destructuring) {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// calleeWidth is the width of the callee in front of an argument list.
func (f *formatter) calleeWidth(n syntax.Node) int {
	if n.Kind() != syntax.Args || n.Parent().Kind() != syntax.FuncCall {
		return 0
	}
	return lastLineWidth(n.PrevSibling().Text(), f.tabWidth())
}

// brokenList puts every entry on its own indented line, each item followed
// by a comma.
func (f *formatter) brokenList(n syntax.Node, entries []listEntry) string {
	indent := f.indent()
	lastItem := -1
	for i, e := range entries {
		if e.item {
			lastItem = i
		}
	}

	ctx := newContext(f.cfg)
	ctx.writeRaw("(\n")
	for i, e := range entries {
		ctx.writeRaw(indent)
		writeEntry(ctx, e, e.item && (n.Kind() != syntax.Parenthesized || i != lastItem))
		ctx.writeRaw("\n")
	}
	ctx.writeRaw(")")
	return ctx.String()
}

// packedList fills each line with up to packCount short items.
func (f *formatter) packedList(entries []listEntry) string {
	indent := f.indent()

	ctx := newContext(f.cfg)
	ctx.writeRaw("(\n")

	var line strings.Builder
	count := 0
	flush := func() {
		if count == 0 {
			return
		}
		ctx.writeRaw(indent + line.String() + "\n")
		line.Reset()
		count = 0
	}

	for _, e := range entries {
		alone := !e.item || e.trail != "" || strings.Contains(e.text, "\n")
		if alone {
			flush()
			ctx.writeRaw(indent)
			writeEntry(ctx, e, e.item)
			ctx.writeRaw("\n")
			continue
		}

		cell := e.text + ","
		if count > 0 && (count >= packCount || f.width(line.String())+1+f.width(cell) > packWidth) {
			flush()
		}
		if count > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(cell)
		count++
	}
	flush()

	ctx.writeRaw(")")
	return ctx.String()
}

// tableCallee returns the last name of the function an argument list is
// passed to.
func tableCallee(n syntax.Node) (string, bool) {
	call := n.Parent()
	if call.Kind() != syntax.FuncCall {
		return "", false
	}
	name := call.Child(0).Text()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name, name != ""
}

// tableList lays out a table call: named arguments first, one per line, then
// the positional cells in rows of the column count.
func (f *formatter) tableList(items []listEntry) string {
	var named, cells []listEntry
	for _, e := range items {
		if e.node.Kind() == syntax.Named {
			named = append(named, e)
		} else {
			cells = append(cells, e)
		}
	}

	columns := tableColumns(named, len(cells))
	indent := f.indent()

	var sb strings.Builder
	sb.WriteString("(\n")
	for _, e := range named {
		sb.WriteString(indent)
		sb.WriteString(e.text)
		sb.WriteString(",\n")
	}
	for start := 0; start < len(cells); start += columns {
		row := cells[start:min(start+columns, len(cells))]
		parts := make([]string, len(row))
		for i, e := range row {
			parts[i] = e.text
		}
		sb.WriteString(indent)
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(",\n")
	}
	sb.WriteByte(')')
	return sb.String()
}

// tableColumns reads the column count from the columns argument: an integer,
// or an array with one entry per column. Without it the cells are arranged
// in a square.
func tableColumns(named []listEntry, cells int) int {
	for _, e := range named {
		name := e.node.Child(0)
		if name.Kind() != syntax.Ident || name.Text() != "columns" {
			continue
		}
		value := lastSignificant(e.node)
		switch value.Kind() {
		case syntax.Int:
			if n, err := strconv.Atoi(value.Text()); err == nil && n > 0 {
				return n
			}
		case syntax.Array:
			if n := countItems(value); n > 0 {
				return n
			}
		case syntax.Parenthesized:
			return 1
		}
	}
	return max(isqrt(cells), 1)
}

func lastSignificant(n syntax.Node) syntax.Node {
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		if !kids[i].Kind().IsTrivia() {
			return kids[i]
		}
	}
	return syntax.Node{}
}

func countItems(n syntax.Node) int {
	count := 0
	for _, c := range n.Children() {
		switch c.Kind() {
		case syntax.LeftParen, syntax.RightParen, syntax.Comma,
			syntax.Space, syntax.Parbreak, syntax.LineComment, syntax.BlockComment:
		default:
			count++
		}
	}
	return count
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
