package syntax

import "strings"

// Dump renders the structure below n as a compact s-expression of kinds:
// leaves print their kind, inner nodes print `Kind(child child ...)`.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	sb.WriteString(n.Kind().String())
	if n.IsLeaf() {
		return
	}
	sb.WriteByte('(')
	for i, child := range n.Children() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		dump(sb, child)
	}
	sb.WriteByte(')')
}
