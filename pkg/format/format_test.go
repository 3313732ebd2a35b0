package format_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/format"
)

func withMaxLine(n int) config.FormatConfig {
	cfg := config.DefaultFormatConfig()
	cfg.MaxLineLength = n
	return cfg
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tabs := config.DefaultFormatConfig()
	tabs.UseTabs = true

	noWrap := config.DefaultFormatConfig()
	noWrap.WrapText = false

	packed := withMaxLine(10)
	packed.PackConsecutiveArgs = true

	tests := []struct {
		name string
		src  string
		cfg  config.FormatConfig
		want string
	}{
		{
			name: "call arguments are spaced",
			src:  "#f(1,2,3)",
			cfg:  config.DefaultFormatConfig(),
			want: "#f(1, 2, 3)",
		},
		{
			name: "long argument list breaks with trailing comma",
			src:  "#f(1,this_is_absurdly_long,3)",
			cfg:  withMaxLine(1),
			want: "#f(\n  1,\n  this_is_absurdly_long,\n  3,\n)",
		},
		{
			name: "single argument never breaks on length",
			src:  "#f(this_is_absurdly_long)",
			cfg:  withMaxLine(1),
			want: "#f(this_is_absurdly_long)",
		},
		{
			name: "single element array keeps its comma",
			src:  "#(auto,)",
			cfg:  config.DefaultFormatConfig(),
			want: "#(auto,)",
		},
		{
			name: "preserved region is copied verbatim",
			src:  "// format:off\n#f(x : [p])\n// format:on\nnotp",
			cfg:  config.DefaultFormatConfig(),
			want: "// format:off\n#f(x : [p])\n// format:on\nnotp",
		},
		{
			name: "nested off directives need as many on directives",
			src:  "// format:off\n// format:off\n#f(1,2)\n// format:on\n#f(1,2)\n// format:on\n#f(1,2)",
			cfg:  config.DefaultFormatConfig(),
			want: "// format:off\n// format:off\n#f(1,2)\n// format:on\n#f(1,2)\n// format:on\n#f(1, 2)",
		},
		{
			name: "trailing content block stays glued to broken arguments",
			src:  "#f(aaaa,bbbb)[body]",
			cfg:  withMaxLine(10),
			want: "#f(\n  aaaa,\n  bbbb,\n)[body]",
		},
		{
			name: "legacy preserve markers",
			src:  "// typstfmt::off\n#f(1,2)\n// typstfmt::on\n#f(1,2)",
			cfg:  config.DefaultFormatConfig(),
			want: "// typstfmt::off\n#f(1,2)\n// typstfmt::on\n#f(1, 2)",
		},
		{
			name: "unmatched enable marker is ignored",
			src:  "// format:on\n#f(1,2)",
			cfg:  config.DefaultFormatConfig(),
			want: "// format:on\n#f(1, 2)",
		},
		{
			name: "whitespace only code block",
			src:  "#{  }",
			cfg:  config.DefaultFormatConfig(),
			want: "#{ }",
		},
		{
			name: "empty code block",
			src:  "#{}",
			cfg:  config.DefaultFormatConfig(),
			want: "#{}",
		},
		{
			name: "brackets in plain text",
			src:  "[ 4 ]",
			cfg:  config.DefaultFormatConfig(),
			want: "[ 4 ]",
		},
		{
			name: "linebreak in content block",
			src:  `#[\ ]`,
			cfg:  config.DefaultFormatConfig(),
			want: `#[\ ]`,
		},
		{
			name: "embedded call glued to text",
			src:  "a#lorem(2)b c d",
			cfg:  config.DefaultFormatConfig(),
			want: "a#lorem(2)b c d",
		},
		{
			name: "escape",
			src:  `C\#`,
			cfg:  config.DefaultFormatConfig(),
			want: `C\#`,
		},
		{
			name: "inline equation",
			src:  "$x$",
			cfg:  config.DefaultFormatConfig(),
			want: "$x$",
		},
		{
			name: "display equation spacing",
			src:  "$ a  b $",
			cfg:  config.DefaultFormatConfig(),
			want: "$ a b $",
		},
		{
			name: "math alignment",
			src:  "$\na &= b\nccc &= d\n$",
			cfg:  config.DefaultFormatConfig(),
			want: "$\n  a   &= b\n  ccc &= d\n$",
		},
		{
			name: "let binding",
			src:  "#let x  =   1",
			cfg:  config.DefaultFormatConfig(),
			want: "#let x = 1",
		},
		{
			name: "function definition",
			src:  "#let f(x,y)=x+y",
			cfg:  config.DefaultFormatConfig(),
			want: "#let f(x, y) = x + y",
		},
		{
			name: "dictionary",
			src:  "#(a:1,b:2)",
			cfg:  config.DefaultFormatConfig(),
			want: "#(a: 1, b: 2)",
		},
		{
			name: "empty collections",
			src:  "#() #(:)",
			cfg:  config.DefaultFormatConfig(),
			want: "#() #(:)",
		},
		{
			name: "import list",
			src:  `#import "a.typ": x,y`,
			cfg:  config.DefaultFormatConfig(),
			want: `#import "a.typ": x, y`,
		},
		{
			name: "short conditional stays on one line",
			src:  "#if x {a} else {b}",
			cfg:  config.DefaultFormatConfig(),
			want: "#if x { a } else { b }",
		},
		{
			name: "conditional branches break together",
			src:  "#if a {\n  b\n} else {c}",
			cfg:  config.DefaultFormatConfig(),
			want: "#if a {\n  b\n} else {\n  c\n}",
		},
		{
			name: "loop body always breaks",
			src:  "#for x in y {x}",
			cfg:  config.DefaultFormatConfig(),
			want: "#for x in y {\n  x\n}",
		},
		{
			name: "loop body with tabs",
			src:  "#for x in y {x}",
			cfg:  tabs,
			want: "#for x in y {\n\tx\n}",
		},
		{
			name: "line comment forces breaking",
			src:  "#f(a, // c\nb)",
			cfg:  config.DefaultFormatConfig(),
			want: "#f(\n  a, // c\n  b,\n)",
		},
		{
			name: "table rows",
			src:  "#table(columns: 2, [a], [b], [c], [d])",
			cfg:  config.DefaultFormatConfig(),
			want: "#table(\n  columns: 2,\n  [a], [b],\n  [c], [d],\n)",
		},
		{
			name: "packed arguments",
			src:  "#f(a,b,c,d,e)",
			cfg:  packed,
			want: "#f(\n  a, b, c,\n  d, e,\n)",
		},
		{
			name: "long parenthesized chain breaks before operators",
			src:  "#let x = (aaaa + bbbb)",
			cfg:  withMaxLine(10),
			want: "#let x = (\n  aaaa\n  + bbbb\n)",
		},
		{
			name: "nested content blocks indent",
			src:  "#[\ntext #[\ntext\n]\n]",
			cfg:  config.DefaultFormatConfig(),
			want: "#[\n  text #[\n    text\n  ]\n]",
		},
		{
			name: "heading spacing",
			src:  "=   Title",
			cfg:  config.DefaultFormatConfig(),
			want: "= Title",
		},
		{
			name: "list item spacing",
			src:  "-   item",
			cfg:  config.DefaultFormatConfig(),
			want: "- item",
		},
		{
			name: "list item continuation is joined",
			src:  "- a\n  b",
			cfg:  config.DefaultFormatConfig(),
			want: "- a b",
		},
		{
			name: "block comment after a comma leads the next argument",
			src:  "#f(a,/* c */ b)",
			cfg:  config.DefaultFormatConfig(),
			want: "#f(a, /* c */ b)",
		},
		{
			name: "block comment before a comma trails the argument",
			src:  "#f(a /* c */,b)",
			cfg:  config.DefaultFormatConfig(),
			want: "#f(a /* c */, b)",
		},
		{
			name: "broken list keeps a trailing comment before its comma",
			src:  "#f(a /* c */, this_is_absurdly_long)",
			cfg:  withMaxLine(10),
			want: "#f(\n  a /* c */,\n  this_is_absurdly_long,\n)",
		},
		{
			name: "broken list keeps a leading comment after the comma",
			src:  "#f(a, /* c */ this_is_absurdly_long)",
			cfg:  withMaxLine(10),
			want: "#f(\n  a,\n  /* c */ this_is_absurdly_long,\n)",
		},
		{
			name: "line comment before a comma is left alone",
			src:  "#f(a // c\n, b)",
			cfg:  config.DefaultFormatConfig(),
			want: "#f(a // c\n, b)",
		},
		{
			name: "inline aligned equation counts the opening dollar",
			src:  "$&\n0&0$",
			cfg:  config.DefaultFormatConfig(),
			want: "$&\n0&0$",
		},
		{
			name: "inline aligned equation pads its first line",
			src:  "$&\n00&0$",
			cfg:  config.DefaultFormatConfig(),
			want: "$ &\n00&0$",
		},
		{
			name: "display aligned equation counts the opening space",
			src:  "$ x &= 1 \\\n  yy &= 2 $",
			cfg:  config.DefaultFormatConfig(),
			want: "$ x &= 1 \\\nyy  &= 2 $",
		},
		{
			name: "display aligned equation keeps first line padding",
			src:  "$ &= 1 \\\n yy &= 2 $",
			cfg:  config.DefaultFormatConfig(),
			want: "$  &= 1 \\\nyy &= 2 $",
		},
		{
			name: "empty term keeps the marker space",
			src:  "/ :b",
			cfg:  config.DefaultFormatConfig(),
			want: "/ : b",
		},
		{
			name: "empty list item followed on its line",
			src:  "+ ]",
			cfg:  config.DefaultFormatConfig(),
			want: "+ ]",
		},
		{
			name: "empty heading followed on its line",
			src:  "= ]",
			cfg:  config.DefaultFormatConfig(),
			want: "= ]",
		},
		{
			name: "empty list item at line end",
			src:  "-   \n\nnext",
			cfg:  config.DefaultFormatConfig(),
			want: "-\n\nnext",
		},
		{
			name: "text wraps at the line limit",
			src:  "aaaa bbbb cccc dddd eeee ffff",
			cfg:  withMaxLine(20),
			want: "aaaa bbbb cccc dddd\neeee ffff",
		},
		{
			name: "line breaks kept without wrapping",
			src:  "a\nb",
			cfg:  noWrap,
			want: "a\nb",
		},
		{
			name: "blank lines collapse",
			src:  "a\n\n\n\nb",
			cfg:  config.DefaultFormatConfig(),
			want: "a\n\nb",
		},
		{
			name: "trailing spaces before newline removed",
			src:  "#let x = 1   \ntext",
			cfg:  config.DefaultFormatConfig(),
			want: "#let x = 1\ntext",
		},
		{
			name: "raw block untouched",
			src:  "```\n  x  \n```",
			cfg:  config.DefaultFormatConfig(),
			want: "```\n  x  \n```",
		},
		{
			name: "not operator",
			src:  "#(not  x)",
			cfg:  config.DefaultFormatConfig(),
			want: "#(not x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := format.FormatSource(tt.src, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"#f(1,2,3)",
		"#f(1,this_is_absurdly_long,3)",
		"= Heading\n\nSome *strong* and _emph_ text with a #link(\"https://typst.app\")[link].\n",
		"- one\n- two\n  - nested\n+ first\n/ Term: description\n",
		"#let f(x, y) = {\n  let z = x + y\n  z * 2\n}\n",
		"#if a {\n  b\n} else if c {d} else {e}\n",
		"#table(columns: (1fr, 1fr), [a], [b], [c], [d])\n",
		"$\na &= b + c \\\nccc &= d\n$\n",
		"#set text(size: 11pt, font: \"Linux Libertine\")\n#show heading: it => block(it)\n",
		"// format:off\n#f(  1 )\n// format:on\n#f(  1 )\n",
		"#for x in (1, 2, 3) {\n  [#x]\n}\n",
		"$&\n0&0$",
		"$&\n00&0$",
		"$ x &= 1 \\\n  yy &= 2 $",
		"$ &= 1 \\\n yy &= 2 $",
		"/ :\n",
		"/ :b\n",
		"+ ]\n",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\n",
	}

	cfgs := map[string]config.FormatConfig{
		"default": config.DefaultFormatConfig(),
		"narrow":  withMaxLine(20),
	}

	for name, cfg := range cfgs {
		for _, src := range inputs {
			once := format.Format(src, cfg)
			twice := format.Format(once, cfg)
			assert.Equal(t, once, twice, "%s config, input %q", name, src)
		}
	}
}

func TestFormatKeepsBrokenInput(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"#f(a,",
		"*unclosed",
		"#let x = \"open",
		"```\nno end",
		"#f(*[]*[0],[0])",
	} {
		assert.Equal(t, src, format.Format(src, config.DefaultFormatConfig()), "input %q", src)
	}
}

func TestFormatOffInsideBlockLeaks(t *testing.T) {
	t.Parallel()

	src := "#{\n  // format:off\n  1\n}\n\n#f(1,2)"
	got, err := format.FormatSource(src, config.DefaultFormatConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "#f(1,2)")
	assert.Equal(t, got, format.Format(got, config.DefaultFormatConfig()))
}

func TestFormatContainsNestedErrors(t *testing.T) {
	t.Parallel()

	got, err := format.FormatSource("#f(1,2)\n\n#g(*[]*[0],[0])", config.DefaultFormatConfig())
	require.NoError(t, err)
	assert.Equal(t, "#f(1, 2)\n\n#g(*[]*[0],[0])", got)
}

func TestFormatSourceWithControlBytes(t *testing.T) {
	t.Parallel()

	src := "a\x00b #f(1,2)"
	got, err := format.FormatSource(src, config.DefaultFormatConfig())
	require.NoError(t, err)
	assert.Equal(t, "a\x00b #f(1, 2)", got)
}

func TestInvariantError(t *testing.T) {
	t.Parallel()

	err := error(&format.InvariantError{Offset: 3, Reason: "comment lost"})
	assert.True(t, errors.Is(err, format.ErrInvariant))
	assert.Contains(t, err.Error(), "offset 3")
	assert.Contains(t, err.Error(), "comment lost")
}
