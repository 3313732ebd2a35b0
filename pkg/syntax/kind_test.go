package syntax_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

func TestKindsHaveNames(t *testing.T) {
	t.Parallel()

	seen := make(map[string]syntax.Kind)
	for _, k := range syntax.Kinds() {
		name := k.String()
		if strings.HasPrefix(name, "Kind(") {
			t.Errorf("kind %d has no name", k)
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("kinds %d and %d share the name %q", prev, k, name)
		}
		seen[name] = k
	}
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, syntax.Space.IsTrivia())
	assert.True(t, syntax.Parbreak.IsTrivia())
	assert.True(t, syntax.LineComment.IsTrivia())
	assert.False(t, syntax.Text.IsTrivia())

	assert.True(t, syntax.BlockComment.IsComment())
	assert.False(t, syntax.Space.IsComment())

	assert.True(t, syntax.Let.IsKeyword())
	assert.True(t, syntax.As.IsKeyword())
	assert.False(t, syntax.Ident.IsKeyword())

	assert.True(t, syntax.LeftParen.IsBracket())
	assert.False(t, syntax.Comma.IsBracket())

	assert.Equal(t, "Kind(65535)", syntax.Kind(65535).String())
}
