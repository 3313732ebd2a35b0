// Package format pretty-prints Typst documents.
//
// The formatter walks the lossless syntax tree bottom-up. Every node kind has
// a renderer that receives the already formatted text of its children and
// produces the text of the node. Regions switched off with a format:off
// comment, raw blocks, and containers of parse errors are copied verbatim.
//
// Formatting never changes the meaning of a document: when an internal
// invariant is violated the source is returned unchanged.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// ErrInvariant is matched by every InvariantError.
var ErrInvariant = errors.New("formatter invariant violated")

// InvariantError reports a node the formatter could not render safely.
type InvariantError struct {
	Kind   syntax.Kind
	Offset int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d: %s", ErrInvariant, e.Kind, e.Offset, e.Reason)
}

// Is reports whether target is ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// Format formats src with cfg. On any internal failure it returns src
// unchanged; use FormatSource to observe the failure.
func Format(src string, cfg config.FormatConfig) string {
	out, err := FormatSource(src, cfg)
	if err != nil {
		return src
	}
	return out
}

// FormatSource parses and formats src. When it returns an error the returned
// text is src.
func FormatSource(src string, cfg config.FormatConfig) (string, error) {
	tree, err := syntax.Parse(src)
	if err != nil {
		return src, fmt.Errorf("parse: %w", err)
	}
	return FormatTree(tree, cfg)
}

// FormatTree formats an already parsed document.
func FormatTree(tree *syntax.Tree, cfg config.FormatConfig) (out string, err error) {
	f := newFormatter(tree, cfg)

	defer func() {
		if r := recover(); r != nil {
			out = tree.Source
			err = f.invariant(f.current, fmt.Sprintf("panic: %v", r))
		}
	}()

	root := tree.Root()
	rendered := f.render(root)

	cleaned, balanced := cleanup(rendered, f.markers)
	if !balanced {
		f.fail(root, "unbalanced verbatim region")
	}
	f.checkComments(cleaned)

	if len(f.errs) > 0 {
		return tree.Source, errors.Join(f.errs...)
	}
	return cleaned, nil
}

// renderFunc produces the text of n from the formatted text of its children.
type renderFunc func(f *formatter, n syntax.Node, children []string) string

//nolint:gochecknoglobals // Dispatch table, filled once in init.
var renderers map[syntax.Kind]renderFunc

//nolint:gochecknoinits // The table refers to functions that call back into render.
func init() {
	renderers = map[syntax.Kind]renderFunc{
		syntax.Markup:        renderMarkup,
		syntax.Heading:       renderItem,
		syntax.ListItem:      renderItem,
		syntax.EnumItem:      renderItem,
		syntax.TermItem:      renderTermItem,
		syntax.Strong:        renderGlued,
		syntax.Emph:          renderGlued,
		syntax.Equation:      renderEquation,
		syntax.Math:          renderMath,
		syntax.MathDelimited: renderGlued,

		syntax.Code:          renderCode,
		syntax.CodeBlock:     renderCodeBlock,
		syntax.ContentBlock:  renderContentBlock,
		syntax.Parenthesized: renderArgs,
		syntax.Array:         renderArgs,
		syntax.Dict:          renderArgs,
		syntax.Args:          renderArgs,
		syntax.Params:        renderArgs,
		syntax.Destructuring: renderArgs,
		syntax.FieldAccess:   renderGlued,
		syntax.FuncCall:      renderGlued,
		syntax.Spread:        renderGlued,
		syntax.Unary:         renderUnary,
		syntax.Binary:        renderBinary,
		syntax.Conditional:   renderConditional,
	}

	for _, k := range []syntax.Kind{
		syntax.Named, syntax.Keyed, syntax.Closure,
		syntax.LetBinding, syntax.SetRule, syntax.ShowRule, syntax.Contextual,
		syntax.WhileLoop, syntax.ForLoop,
		syntax.ModuleImport, syntax.ImportItems, syntax.ModuleInclude,
		syntax.LoopBreak, syntax.LoopContinue, syntax.FuncReturn,
		syntax.DestructAssignment,
	} {
		renderers[k] = renderSpaced
	}

	for _, k := range syntax.Kinds() {
		if _, ok := renderers[k]; !ok {
			renderers[k] = renderLeaf
		}
	}
}

type formatter struct {
	cfg  config.FormatConfig
	tree *syntax.Tree

	// preserved is indexed by node id.
	preserved []bool
	// forced holds blocks that must render in their broken form.
	forced map[syntax.NodeID]bool
	// markers is false when the source already contains the bytes used to
	// delimit verbatim regions.
	markers bool

	current syntax.Node
	errs    []error
}

func newFormatter(tree *syntax.Tree, cfg config.FormatConfig) *formatter {
	return &formatter{
		cfg:       cfg,
		tree:      tree,
		preserved: preservePass(tree),
		forced:    make(map[syntax.NodeID]bool),
		markers:   !strings.ContainsRune(tree.Source, protectOpen) && !strings.ContainsRune(tree.Source, protectClose),
	}
}

// render formats the subtree rooted at n.
func (f *formatter) render(n syntax.Node) string {
	f.current = n
	kind := n.Kind()

	if f.preserved[n.ID()] || kind == syntax.Raw {
		return f.protect(n.Text())
	}
	if containsError(n) {
		return f.protect(n.Text())
	}

	kids := n.Children()
	children := make([]string, len(kids))
	preservedChild := false
	for i, c := range kids {
		children[i] = f.render(c)
		preservedChild = preservedChild || f.preserved[c.ID()]
	}
	f.current = n

	fn, ok := renderers[kind]
	if !ok {
		f.fail(n, "no renderer for node kind")
		return f.protect(n.Text())
	}
	if preservedChild && !handlesPreserved(kind) {
		fn = renderGlued
	}
	return fn(f, n, children)
}

// protect marks s as a verbatim region.
func (f *formatter) protect(s string) string {
	if !f.markers || s == "" {
		return s
	}
	return string(protectOpen) + s + string(protectClose)
}

func (f *formatter) isPreserved(n syntax.Node) bool {
	return f.preserved[n.ID()]
}

func (f *formatter) indent() string {
	return indentString(f.cfg)
}

func (f *formatter) width(s string) int {
	return maxLineWidth(s, f.tabWidth())
}

func (f *formatter) tabWidth() int {
	return max(f.cfg.IndentWidth, 1)
}

func (f *formatter) invariant(n syntax.Node, reason string) error {
	e := &InvariantError{Kind: n.Kind(), Reason: reason}
	if n.Valid() {
		e.Offset, _ = n.Span()
	}
	return e
}

func (f *formatter) fail(n syntax.Node, reason string) {
	f.errs = append(f.errs, f.invariant(n, reason))
}

// checkComments verifies that every comment of the source survives, in
// order, in the output.
func (f *formatter) checkComments(out string) {
	pos := 0
	for _, leaf := range syntax.Leaves(f.tree.Root()) {
		if !leaf.Kind().IsComment() {
			continue
		}
		text := strings.TrimRight(leaf.Text(), " \t\r")
		i := strings.Index(out[pos:], text)
		if i < 0 {
			f.fail(leaf, "comment lost")
			return
		}
		pos += i + len(text)
	}
}

// handlesPreserved reports whether the renderer of kind copies preserved
// children verbatim itself. Other kinds fall back to plain concatenation.
func handlesPreserved(kind syntax.Kind) bool {
	switch kind {
	case syntax.Markup, syntax.Code, syntax.Math:
		return true
	default:
		return false
	}
}

// containsError reports whether a container holds a parse error anywhere
// outside a nested sequence. Sequences tolerate errors; any other container
// around an error is copied verbatim, so the error cannot move.
func containsError(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.Markup, syntax.Code, syntax.Math:
		return false
	}
	for _, c := range n.Children() {
		if c.Kind() == syntax.Error || containsError(c) {
			return true
		}
	}
	return false
}

func hasNewline(s string) bool {
	return strings.ContainsAny(s, "\n\r")
}

// newlineCount counts line breaks, treating CRLF as one.
func newlineCount(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			count++
		case '\r':
			if i+1 >= len(s) || s[i+1] != '\n' {
				count++
			}
		}
	}
	return count
}
