package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Protected regions are copied verbatim. They are delimited in intermediate
// output so that reindentation and cleanup leave them alone; the markers are
// removed by cleanup.
const (
	protectOpen  = '\x00'
	protectClose = '\x01'
)

// lineWidth returns the display width of one line. Tabs count as one
// indentation level; protection markers have no width.
func lineWidth(line string, tabWidth int) int {
	w := 0
	for _, r := range line {
		switch r {
		case protectOpen, protectClose:
		case '\t':
			w += tabWidth
		default:
			w += runewidth.RuneWidth(r)
		}
	}
	return w
}

// maxLineWidth returns the width of the widest line of s.
func maxLineWidth(s string, tabWidth int) int {
	widest := 0
	for line := range strings.SplitSeq(s, "\n") {
		widest = max(widest, lineWidth(line, tabWidth))
	}
	return widest
}

// lastLineWidth returns the width of the text after the last newline of s.
func lastLineWidth(s string, tabWidth int) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return lineWidth(s, tabWidth)
}

// firstLineWidth returns the width of the text before the first newline of s.
func firstLineWidth(s string, tabWidth int) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return lineWidth(s, tabWidth)
}

// reindent prefixes every line of s after the first with indent. Empty lines
// and lines that begin inside a protected region are left alone.
func reindent(s, indent string) string {
	if !strings.Contains(s, "\n") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + strings.Count(s, "\n")*len(indent))

	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		sb.WriteByte(c)
		switch c {
		case protectOpen:
			depth++
		case protectClose:
			depth = max(depth-1, 0)
		case '\n':
			if depth > 0 {
				continue
			}
			if i+1 < len(s) && s[i+1] != '\n' {
				sb.WriteString(indent)
			}
		}
	}
	return sb.String()
}

// trimSpace removes spaces and newlines around s without touching protected
// regions.
func trimSpace(s string) string {
	return strings.Trim(s, " \n")
}

// cleanup strips trailing blanks before newlines outside protected regions
// and removes the protection markers. It reports false when the markers are
// unbalanced. Without markers every byte other than trailing blanks is kept.
func cleanup(s string, markers bool) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(s))

	depth := 0
	var blanks strings.Builder
	balanced := true

	flushBlanks := func() {
		sb.WriteString(blanks.String())
		blanks.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case !markers && (c == protectOpen || c == protectClose):
			flushBlanks()
			sb.WriteByte(c)
		case c == protectOpen:
			flushBlanks()
			depth++
		case c == protectClose:
			if depth == 0 {
				balanced = false
			}
			depth = max(depth-1, 0)
		case depth > 0:
			sb.WriteByte(c)
		case c == ' ' || c == '\t':
			blanks.WriteByte(c)
		case c == '\n':
			blanks.Reset()
			sb.WriteByte(c)
		default:
			flushBlanks()
			sb.WriteByte(c)
		}
	}
	flushBlanks()

	return sb.String(), balanced && depth == 0
}
