package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

func TestEveryKindHasRenderer(t *testing.T) {
	t.Parallel()

	for _, k := range syntax.Kinds() {
		_, ok := renderers[k]
		assert.True(t, ok, "no renderer for %s", k)
	}
}

func TestWriteCollapsing(t *testing.T) {
	t.Parallel()

	ctx := newContext(config.DefaultFormatConfig())
	ctx.writeCollapsing("a   b")
	ctx.writeCollapsing("\n\n\n\n")
	ctx.writeRaw("  c")
	ctx.writeCollapsing("  ")
	assert.Equal(t, "a b\n\n  c ", ctx.String())
}

func TestWriteRawReindented(t *testing.T) {
	t.Parallel()

	ctx := newContext(config.DefaultFormatConfig())
	ctx.writeRawReindented("a\nb\n\nc")
	assert.Equal(t, "a\n  b\n\n  c", ctx.String())
}

func TestReindentSkipsProtectedLines(t *testing.T) {
	t.Parallel()

	got := reindent("a\n\x00b\nc\x01\nd", "  ")
	assert.Equal(t, "a\n  \x00b\nc\x01\n  d", got)
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		markers  bool
		want     string
		balanced bool
	}{
		{name: "trailing blanks", in: "a  \nb\t\n", markers: true, want: "a\nb\n", balanced: true},
		{name: "protected blanks kept", in: "\x00a  \n\x01b  \nc", markers: true, want: "a  \nb\nc", balanced: true},
		{name: "unbalanced", in: "\x00a", markers: true, want: "a", balanced: false},
		{name: "stray close", in: "a\x01", markers: true, want: "a", balanced: false},
		{name: "markers disabled", in: "a\x00 \nb", markers: false, want: "a\x00\nb", balanced: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := cleanup(tt.in, tt.markers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.balanced, ok)
		})
	}
}

func TestLineWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, lineWidth("abc", 2))
	assert.Equal(t, 4, lineWidth("日本", 2))
	assert.Equal(t, 3, lineWidth("\tx", 2))
	assert.Equal(t, 1, lineWidth("\x00x\x01", 2))
	assert.Equal(t, 5, maxLineWidth("ab\nabcde\nc", 2))
	assert.Equal(t, 1, lastLineWidth("abc\nd", 2))
	assert.Equal(t, 3, firstLineWidth("abc\nd", 2))
}

func TestPreservePass(t *testing.T) {
	t.Parallel()

	tree, err := syntax.Parse("a\n// format:off\nb  c\n// format:on\nd")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	preserved := preservePass(tree)

	var kept []string
	for _, leaf := range syntax.Leaves(tree.Root()) {
		if preserved[leaf.ID()] {
			kept = append(kept, leaf.Text())
		}
	}
	assert.Equal(t, []string{"// format:off", "\n", "b", "  ", "c", "\n"}, kept)
}

func TestPreservePassNested(t *testing.T) {
	t.Parallel()

	kindOf := func(k syntax.Kind) func(syntax.Node) bool {
		return func(n syntax.Node) bool { return n.Kind() == k }
	}

	t.Run("off inside a block tags its statements", func(t *testing.T) {
		t.Parallel()

		tree, err := syntax.Parse("#{\n// format:off\nlet x = (1,2)\n}")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		preserved := preservePass(tree)

		let := syntax.FindFirst(tree.Root(), kindOf(syntax.LetBinding))
		code := syntax.FindFirst(tree.Root(), kindOf(syntax.Code))
		block := syntax.FindFirst(tree.Root(), kindOf(syntax.CodeBlock))
		assert.True(t, preserved[let.ID()], "statement after the directive")
		assert.False(t, preserved[code.ID()], "sequence tagged its own children")
		assert.False(t, preserved[block.ID()], "block opened before the directive")
	})

	t.Run("second off tags a block whole", func(t *testing.T) {
		t.Parallel()

		tree, err := syntax.Parse("// format:off\n#{\n// format:off\n1\n}\n// format:on\n// format:on\ny")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		preserved := preservePass(tree)

		block := syntax.FindFirst(tree.Root(), kindOf(syntax.CodeBlock))
		assert.True(t, preserved[block.ID()])

		last := syntax.Leaves(tree.Root())
		assert.False(t, preserved[last[len(last)-1].ID()], "text after both on directives")
	})

	t.Run("off inside a block leaks to the enclosing markup", func(t *testing.T) {
		t.Parallel()

		tree, err := syntax.Parse("#{\n// format:off\n1\n}\n#f(1,2)")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		preserved := preservePass(tree)

		call := syntax.FindFirst(tree.Root(), kindOf(syntax.FuncCall))
		assert.True(t, preserved[call.ID()])
	})
}

func TestWriteEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry listEntry
		comma bool
		want  string
	}{
		{name: "multiline item", entry: listEntry{text: "a\nb", item: true}, comma: true, want: "a\n  b,"},
		{name: "comment before comma", entry: listEntry{text: "a", item: true, trail: "/* c */", trailFirst: true}, comma: true, want: "a /* c */,"},
		{name: "comment after comma", entry: listEntry{text: "a", item: true, trail: "/* c */"}, comma: true, want: "a, /* c */"},
		{name: "line comment ends the line", entry: listEntry{text: "a", item: true, trail: "// c", trailFirst: true}, comma: true, want: "a, // c"},
		{name: "no comma", entry: listEntry{text: "a", item: true, trail: "/* c */", trailFirst: true}, want: "a /* c */"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := newContext(config.DefaultFormatConfig())
			writeEntry(ctx, tt.entry, tt.comma)
			assert.Equal(t, tt.want, ctx.String())
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	split := func(t *testing.T, src string) (parenList, bool) {
		t.Helper()

		tree, err := syntax.Parse(src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		args := syntax.FindFirst(tree.Root(), func(n syntax.Node) bool { return n.Kind() == syntax.Args })
		kids := args.Children()
		children := make([]string, len(kids))
		for i, c := range kids {
			children[i] = c.Text()
		}
		return splitList(kids, children)
	}

	list, ok := split(t, "#f(a, /* c */ b)")
	assert.True(t, ok)
	if assert.Len(t, list.entries, 2) {
		assert.Empty(t, list.entries[0].trail)
		assert.Equal(t, "/* c */ b", list.entries[1].text)
	}

	list, ok = split(t, "#f(a /* c */, b)")
	assert.True(t, ok)
	if assert.Len(t, list.entries, 2) {
		assert.Equal(t, "/* c */", list.entries[0].trail)
		assert.True(t, list.entries[0].trailFirst)
	}

	list, ok = split(t, "#f(a, /* c */)")
	assert.True(t, ok)
	if assert.Len(t, list.entries, 1) {
		assert.Equal(t, "/* c */", list.entries[0].trail)
		assert.False(t, list.entries[0].trailFirst)
	}

	_, ok = split(t, "#f(a // c\n, b)")
	assert.False(t, ok)
}

func TestTableColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, tableColumns(nil, 0))
	assert.Equal(t, 2, tableColumns(nil, 4))
	assert.Equal(t, 3, tableColumns(nil, 10))
	assert.Equal(t, 0, isqrt(0))
	assert.Equal(t, 4, isqrt(17))
}
