package cli

import (
	"errors"

	"github.com/yaklabco/adocast/internal/configloader"
	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/cst"
	"github.com/yaklabco/adocast/pkg/fsutil"
)

// Exit codes for adocast.
const (
	// ExitSuccess indicates the document was parsed and written.
	ExitSuccess = 0

	// ExitParseError indicates the document, or some file given to
	// convert, could not be parsed.
	ExitParseError = 1

	// ExitDocumentErrors indicates --strict found Error nodes in the tree.
	ExitDocumentErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrDocumentErrors is returned in strict mode when the tree holds Error nodes.
var ErrDocumentErrors = errors.New("document contains error nodes")

// ErrConvertFailures is returned when convert could not process every file.
var ErrConvertFailures = errors.New("files could not be converted")

// ErrInvalidUsage marks flag and argument errors.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDocumentErrors):
		return ExitDocumentErrors
	case errors.Is(err, ErrConvertFailures),
		errors.Is(err, cst.ErrSyntax),
		errors.Is(err, asciidoc.ErrMaxDepth):
		return ExitParseError
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
