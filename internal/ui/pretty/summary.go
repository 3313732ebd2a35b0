package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gotypfmt/pkg/config"
	"github.com/yaklabco/gotypfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 of 12 files need formatting, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, mode config.Mode) string {
	var parts []string

	switch {
	case stats.FilesProcessed == 0 && stats.FilesErrored == 0:
		parts = append(parts, s.Dim.Render("No files to format"))
	case mode == config.ModeWrite && stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("Formatted %d of %d %s",
			stats.FilesWritten, stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("All %d %s formatted",
			stats.FilesProcessed, plural(stats.FilesProcessed, "file is", "files are"))))
	default:
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d of %d %s",
			stats.FilesChanged, stats.FilesProcessed, plural(stats.FilesProcessed, "file needs formatting", "files need formatting"))))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, mode config.Mode) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		label := "  Files unformatted: "
		style := s.Failure
		if mode == config.ModeWrite {
			label = "  Files formatted:   "
			style = s.Success
		}
		builder.WriteString(label + style.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Warning.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.Blocks > 0 {
		builder.WriteString("  Markdown blocks:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.Blocks)) + "\n")
	}
	if stats.Additions > 0 || stats.Deletions > 0 {
		builder.WriteString("  Lines changed:     " +
			s.DiffAdd.Render("+"+strconv.Itoa(stats.Additions)) + " " +
			s.DiffRemove.Render("-"+strconv.Itoa(stats.Deletions)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed for some files"))
	case stats.FilesChanged > 0 && mode != config.ModeWrite:
		builder.WriteString(s.Failure.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
