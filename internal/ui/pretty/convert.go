package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/adocast/pkg/runner"
)

// FormatConvertSummary formats the statistics of a batch conversion.
// Example: "12 files converted (3 written), 1 failed, 2 with error nodes".
func (s *Styles) FormatConvertSummary(stats runner.Stats) string {
	fileWord := "files"
	if stats.FilesProcessed == 1 {
		fileWord = "file"
	}

	var b strings.Builder
	b.WriteString(s.SummaryTitle.Render(fmt.Sprintf("%d %s converted", stats.FilesProcessed, fileWord)))
	b.WriteString(s.Dim.Render(fmt.Sprintf(" (%d written)", stats.FilesWritten)))

	if stats.FilesErrored > 0 {
		b.WriteString(", " + s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	switch stats.FilesWithErrorNodes {
	case 0:
		b.WriteString(", " + s.Success.Render("no error nodes"))
	default:
		b.WriteString(", " + s.Failure.Render(fmt.Sprintf("%d with error nodes", stats.FilesWithErrorNodes)))
	}

	b.WriteString("\n")
	return b.String()
}

// FormatFailure formats a file that could not be converted.
func (s *Styles) FormatFailure(path string, err error) string {
	return s.Location.Render(path) + ": " + s.Error.Render(err.Error()) + "\n"
}
