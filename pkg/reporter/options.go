package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
	"github.com/yaklabco/gotypfmt/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Mode is the run mode the result was produced in.
	Mode config.Mode

	// Color controls colorized output: "auto", "always" or "never".
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose lists files that were already formatted.
	Verbose bool

	// Compact uses minified JSON.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Mode:        config.ModeWrite,
		Color:       pretty.ColorAuto,
		ShowSummary: true,
	}
}
