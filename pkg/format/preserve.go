package format

import (
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/syntax"
)

// Comment directives that switch formatting off and back on. Both the
// current spelling and the typstfmt spelling are recognized.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	offMarkers = []string{"format:off", "typstfmt::off"}
	onMarkers  = []string{"format:on", "typstfmt::on"}
)

// preserveData is what a subtree reports to its parent during the preserve
// pass.
type preserveData struct {
	// depth is the net number of unclosed off directives in the subtree.
	depth int
	// parentMustHandle is set when the subtree did not tag any of its own
	// children, so the parent has to tag it as a whole.
	parentMustHandle bool
}

// preservePass tags the nodes that must be copied verbatim. The result is
// indexed by node id.
func preservePass(tree *syntax.Tree) []bool {
	preserved := make([]bool, tree.Len())
	visitPreserve(tree.Root(), preserved)
	return preserved
}

func visitPreserve(n syntax.Node, preserved []bool) preserveData {
	if n.Kind().IsComment() {
		text := n.Text()
		switch {
		case containsAny(text, offMarkers):
			return preserveData{depth: 1}
		case containsAny(text, onMarkers):
			return preserveData{depth: -1}
		}
	}

	if n.IsLeaf() {
		return preserveData{}
	}

	data := preserveData{parentMustHandle: true}
	for _, child := range n.Children() {
		childData := visitPreserve(child, preserved)
		// An on directive without a matching off is ignored.
		data.depth = max(0, data.depth+childData.depth)
		if data.depth == 0 {
			continue
		}

		data.parentMustHandle = false
		if child.IsLeaf() || childData.parentMustHandle || data.depth > 1 {
			preserved[child.ID()] = true
		}
	}
	return data
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
