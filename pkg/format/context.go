package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/config"
)

// fmtContext accumulates the output of one formatter call. It keeps enough
// state to collapse redundant whitespace: a run of spaces becomes one space
// and more than two consecutive newlines become two.
type fmtContext struct {
	cfg config.FormatConfig
	buf strings.Builder

	justSpaced bool
	newlines   int
}

func newContext(cfg config.FormatConfig) *fmtContext {
	return &fmtContext{cfg: cfg}
}

// writeCollapsing appends s, dropping spaces that follow a space or a line
// start and newlines beyond the second in a row.
func (c *fmtContext) writeCollapsing(s string) {
	for _, r := range s {
		switch r {
		case ' ':
			if c.justSpaced {
				continue
			}
			c.buf.WriteByte(' ')
			c.justSpaced = true
		case '\n':
			if c.newlines >= 2 {
				continue
			}
			c.buf.WriteByte('\n')
			c.newlines++
			c.justSpaced = true
		default:
			c.buf.WriteRune(r)
			c.lostContext()
		}
	}
}

// writeRaw appends s unmodified.
func (c *fmtContext) writeRaw(s string) {
	if s == "" {
		return
	}
	c.buf.WriteString(s)
	c.lostContext()
}

// writeRawReindented appends s, indenting every line after the first by one
// level.
func (c *fmtContext) writeRawReindented(s string) {
	c.writeRaw(reindent(s, c.indent()))
}

// lostContext forgets the whitespace state after a raw write.
func (c *fmtContext) lostContext() {
	c.justSpaced = false
	c.newlines = 0
}

// indent returns the string for one indentation level.
func (c *fmtContext) indent() string {
	return indentString(c.cfg)
}

func (c *fmtContext) String() string {
	return c.buf.String()
}

func indentString(cfg config.FormatConfig) string {
	if cfg.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", max(cfg.IndentWidth, 1))
}
