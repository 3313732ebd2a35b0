// Package diff renders unified diffs between original and formatted content.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

const noNewline = `\ No newline at end of file`

// Diff is a unified diff for one file.
type Diff struct {
	// Path is the file the diff applies to.
	Path string

	// Hunks holds the unified diff body, starting at the first "@@" line.
	Hunks string

	// Additions and Deletions count changed lines.
	Additions int
	Deletions int
}

// Compute diffs original against modified. It returns nil when the contents
// are equal.
func Compute(path string, original, modified string) (*Diff, error) {
	if original == modified {
		return nil, nil
	}

	a := splitLines(original)
	b := splitLines(modified)

	body, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       a,
		B:       b,
		Context: ContextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}

	d := &Diff{Path: path, Hunks: body}
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'r':
			d.Deletions += op.I2 - op.I1
			d.Additions += op.J2 - op.J1
		case 'd':
			d.Deletions += op.I2 - op.I1
		case 'i':
			d.Additions += op.J2 - op.J1
		}
	}
	return d, nil
}

// HasChanges reports whether the diff changes anything.
func (d *Diff) HasChanges() bool {
	return d != nil && (d.Additions > 0 || d.Deletions > 0)
}

// GitHeader returns the "diff --git" line for the diff.
func (d *Diff) GitHeader() string {
	return fmt.Sprintf("diff --git a/%s b/%s", d.Path, d.Path)
}

// String returns the diff with its ---/+++ file headers.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", d.Path, d.Path)
	sb.WriteString(d.Hunks)
	return sb.String()
}

// Lines splits the hunk body into lines without their terminators.
func (d *Diff) Lines() []string {
	if d == nil || d.Hunks == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(d.Hunks, "\n"), "\n")
}

// splitLines splits s after every newline. An unterminated final line
// carries the "\ No newline at end of file" marker, so it never compares
// equal to its terminated form.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n" + noNewline + "\n"
	return lines
}
