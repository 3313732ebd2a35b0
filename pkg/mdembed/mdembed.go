// Package mdembed formats Typst code embedded in Markdown. Fenced code
// blocks whose info string names typ or typst are located with goldmark,
// formatted, and spliced back; every other byte is kept as is.
package mdembed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/format"
)

// Languages lists the fence info words treated as Typst.
//
//nolint:gochecknoglobals // Read-only lookup table.
var Languages = map[string]bool{
	"typ":   true,
	"typst": true,
}

// Block is one Typst fenced code block.
type Block struct {
	// Language is the first word of the info string.
	Language string

	// Start and End delimit the block body in the source, fence lines
	// excluded.
	Start int
	End   int

	// Line is the 1-based line of the first body line.
	Line int
}

// Result describes the blocks touched by Format.
type Result struct {
	// Blocks is the number of Typst blocks found.
	Blocks int

	// Changed is the number of blocks whose content changed.
	Changed int
}

// FindBlocks returns the Typst fenced blocks of a Markdown document in
// source order. Only top-level blocks are returned: the lines of blocks
// nested in block quotes or list items carry prefixes that a reformatted
// body could not reproduce.
func FindBlocks(src []byte) []Block {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := string(fenced.Language(src))
		if !Languages[strings.ToLower(lang)] || n.Parent().Kind() != ast.KindDocument {
			return ast.WalkSkipChildren, nil
		}
		if start, end, ok := contiguous(fenced.Lines()); ok {
			blocks = append(blocks, Block{
				Language: lang,
				Start:    start,
				End:      end,
				Line:     bytes.Count(src[:start], []byte("\n")) + 1,
			})
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// contiguous returns the byte range covered by the segments when they
// follow each other without gaps or padding.
func contiguous(lines *text.Segments) (int, int, bool) {
	if lines.Len() == 0 {
		return 0, 0, false
	}
	first := lines.At(0)
	start, end := first.Start, first.Stop
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding > 0 || (i > 0 && seg.Start != end) {
			return 0, 0, false
		}
		end = seg.Stop
	}
	return start, end, true
}

// Format formats every Typst block of the Markdown document src. A block
// that fails to format is left unchanged and its error, annotated with the
// block's line, is joined into the returned error.
func Format(src string, cfg config.FormatConfig) (string, Result, error) {
	blocks := FindBlocks([]byte(src))
	result := Result{Blocks: len(blocks)}
	if len(blocks) == 0 {
		return src, result, nil
	}

	var (
		out  strings.Builder
		errs []error
		last int
	)
	out.Grow(len(src))

	for _, b := range blocks {
		body := src[b.Start:b.End]
		formatted, err := format.FormatSource(body, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("typst block at line %d: %w", b.Line, err))
			formatted = body
		}
		if strings.HasSuffix(body, "\n") && !strings.HasSuffix(formatted, "\n") {
			formatted += "\n"
		}
		if formatted != body {
			result.Changed++
		}

		out.WriteString(src[last:b.Start])
		out.WriteString(formatted)
		last = b.End
	}
	out.WriteString(src[last:])

	return out.String(), result, errors.Join(errs...)
}
