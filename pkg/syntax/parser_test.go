package syntax_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

var losslessInputs = []string{
	"",
	"hello world",
	"#",
	"= Heading\n\nSome *strong* and _emph_ text.",
	"- a\n  - b\n- c",
	"+ one\n+ two\n1. three",
	"/ Term: description",
	"#f(1,2,3)",
	"#(auto,)",
	"#{  }",
	"#{\n  let a = 1\n  a\n}",
	"#{ a // c\n b }",
	"#let f(x, y: 2) = x + y",
	"#set text(size: 12pt) if x > 1",
	"#show heading: it => it.body",
	"#import \"a.typ\": x, y as z",
	"#for (k, v) in d { k }",
	"#while i < 3 { i += 1 }",
	"#if x [a] else if y [b] else { c }",
	"#f(x)[body][more]",
	"#x.y.z",
	"#(1 + 2) * 3",
	"$x$",
	"$ a &= b \\ &= c $",
	"$ sum_(i=0)^n i $",
	"$#x + 1$",
	"costs $5",
	"```rust\nfn main() {}\n```",
	"see <intro> and @intro. Also a < b",
	"C\\#, \\u{1F600} and -- or --- dashes...",
	"https://example.com/path(1), trailing.",
	"*unclosed",
	"#f(",
	"#\"abc",
	"/* unclosed block",
	"// format:off\n#f(x : [p])\n// format:on\nnotp",
	"2024 was a year",
	"a\r\n\r\nb",
	"#let (a, b) = (1, 2)",
	"#(a, b) = (b, a)",
	"#context text.lang",
	"#f(..args, (:), (a: 1, \"b\": 2))",
	"#import \"m.typ\": (a, b,)",
	"ünïcödé ✓ text",
}

func TestParseLossless(t *testing.T) {
	t.Parallel()

	for _, src := range losslessInputs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			tree, err := syntax.Parse(src)
			require.NoError(t, err)

			var sb strings.Builder
			for _, leaf := range syntax.Leaves(tree.Root()) {
				sb.WriteString(leaf.Text())
			}
			assert.Equal(t, src, sb.String())
			assert.Equal(t, src, tree.Root().Text())
			assert.Equal(t, syntax.Markup, tree.Root().Kind())
		})
	}
}

func TestParseSpansAreContiguous(t *testing.T) {
	t.Parallel()

	for _, src := range losslessInputs {
		tree, err := syntax.Parse(src)
		require.NoError(t, err)

		err = syntax.Walk(tree.Root(), func(n syntax.Node) error {
			start, end := n.Span()
			pos := start
			for _, child := range n.Children() {
				assert.Equal(t, n.ID(), child.Parent().ID(), "parent of %s in %q", child, src)
				cs, ce := child.Span()
				assert.Equal(t, pos, cs, "gap before %s in %q", child, src)
				pos = ce
			}
			if !n.IsLeaf() {
				assert.Equal(t, end, pos, "children of %s do not cover it in %q", n, src)
			}
			return nil
		})
		require.NoError(t, err)
	}
}

func TestParseStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "function call",
			src:  "#f(1,2,3)",
			want: "Markup(Hash FuncCall(Ident Args(LeftParen Int Comma Int Comma Int RightParen)))",
		},
		{
			name: "single item array",
			src:  "#(auto,)",
			want: "Markup(Hash Array(LeftParen Auto Comma RightParen))",
		},
		{
			name: "whitespace code block",
			src:  "#{  }",
			want: "Markup(Hash CodeBlock(LeftBrace Code Space RightBrace))",
		},
		{
			name: "tight equation",
			src:  "$x$",
			want: "Markup(Equation(Dollar Math(Text) Dollar))",
		},
		{
			name: "spaced equation",
			src:  "$ a $",
			want: "Markup(Equation(Dollar Space Math(Text) Space Dollar))",
		},
		{
			name: "heading",
			src:  "= Title",
			want: "Markup(Heading(HeadingMarker Space Markup(Text)))",
		},
		{
			name: "nested list",
			src:  "- a\n  - b",
			want: "Markup(ListItem(ListMarker Space Markup(Text Space ListItem(ListMarker Space Markup(Text)))))",
		},
		{
			name: "let binding",
			src:  "#let x = 1",
			want: "Markup(Hash LetBinding(Let Space Ident Space Eq Space Int))",
		},
		{
			name: "trailing content block",
			src:  "#f(x)[body]",
			want: "Markup(Hash FuncCall(Ident Args(LeftParen Ident RightParen ContentBlock(LeftBracket Markup(Text) RightBracket))))",
		},
		{
			name: "escape",
			src:  "C\\#",
			want: "Markup(Text Escape)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := syntax.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, syntax.Dump(tree.Root()))
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src     string
		wantErr bool
	}{
		{src: "#f(1, 2)", wantErr: false},
		{src: "plain *strong* text", wantErr: false},
		{src: "#f(", wantErr: true},
		{src: "*unclosed", wantErr: true},
		{src: "#{ a b }", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			tree, err := syntax.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, syntax.HasError(tree.Root()))
		})
	}
}

func TestParseCode(t *testing.T) {
	t.Parallel()

	src := "let a = 1\na + 2"
	tree, err := syntax.ParseCode(src)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t, syntax.Code, root.Kind())
	assert.Equal(t, src, root.Text())
	assert.Len(t, syntax.FindByKind(root, syntax.LetBinding), 1)
	assert.Len(t, syntax.FindByKind(root, syntax.Binary), 1)
	assert.False(t, syntax.HasError(root))
}

func TestNodeNavigation(t *testing.T) {
	t.Parallel()

	tree, err := syntax.Parse("#f(a, b)")
	require.NoError(t, err)

	args := syntax.FindFirst(tree.Root(), func(n syntax.Node) bool { return n.Kind() == syntax.Args })
	require.True(t, args.Valid())

	first := args.FirstChild(syntax.Ident)
	require.True(t, first.Valid())
	assert.Equal(t, "a", first.Text())
	assert.Equal(t, syntax.Comma, first.NextSibling().Kind())
	assert.Equal(t, syntax.LeftParen, first.PrevSibling().Kind())
	assert.Equal(t, 1, first.Index())
	assert.True(t, args.Contains(syntax.RightParen))
	assert.False(t, args.Contains(syntax.Named))

	assert.False(t, tree.Root().Parent().Valid())
	assert.False(t, args.Child(99).Valid())
	assert.Equal(t, "<invalid>", syntax.Node{}.String())
}
