package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/gotypfmt/internal/configloader"
	"github.com/yaklabco/gotypfmt/pkg/fsutil"
	"github.com/yaklabco/gotypfmt/pkg/pipeline"
)

// Exit codes for gotypfmt, following sysexits.h where one applies.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUnformatted indicates that --check found files needing formatting
	// or that verify found a formatter defect.
	ExitUnformatted = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrUnformatted is returned in check mode when some input is not
	// formatted.
	ErrUnformatted = errors.New("input is not formatted")

	// ErrVerifyFailed is returned when verify finds a formatter defect.
	ErrVerifyFailed = errors.New("verification failed")

	// ErrFilesFailed is returned when some files could not be processed.
	// The files were already reported.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrIO marks failures reading standard input or writing output.
	ErrIO = errors.New("i/o error")
)

// ExitCode maps an error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, &validation):
		return ExitConfigError
	case isIOError(err):
		return ExitIOError
	case errors.Is(err, ErrUnformatted), errors.Is(err, ErrVerifyFailed):
		return ExitUnformatted
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an exit status for results
// that were already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrVerifyFailed) || errors.Is(err, ErrFilesFailed)
}

func isIOError(err error) bool {
	return errors.Is(err, ErrIO) ||
		pipeline.IsIOError(err) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, fsutil.ErrNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied) ||
		errors.Is(err, fsutil.ErrIsDirectory)
}

// usageErrorf returns an error that maps to ExitInvalidUsage.
func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
