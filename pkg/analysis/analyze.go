package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

func makeRelativePath(absPath, workDir string) string {
	if workDir == "" || absPath == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the converted trees.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	messages := make(map[string]*MessageAnalysis)
	messageFiles := make(map[string]map[string]bool)

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)

		entry := FileEntry{
			Path:       displayPath,
			Output:     makeRelativePath(file.Output, opts.WorkingDir),
			Nodes:      file.Nodes,
			ErrorNodes: file.ErrorNodes,
		}

		if file.Error != nil {
			report.Totals.FilesFailed++
			entry.Error = file.Error.Error()
		}

		report.Totals.Nodes += file.Nodes
		report.Totals.ErrorNodes += file.ErrorNodes
		if file.ErrorNodes > 0 {
			report.Totals.FilesWithErrors++
		}

		if opts.IncludeFiles {
			report.Files = append(report.Files, entry)
		}

		for _, node := range ast.FindByKind(file.Document, ast.KindError) {
			msg := errorMessage(node)

			ma, ok := messages[msg]
			if !ok {
				ma = &MessageAnalysis{Message: msg}
				messages[msg] = ma
				messageFiles[msg] = make(map[string]bool)
			}
			ma.Count++
			messageFiles[msg][displayPath] = true

			if opts.IncludeErrors {
				report.Errors = append(report.Errors, ErrorEntry{
					FilePath:    displayPath,
					Message:     msg,
					StartLine:   node.Span.StartLine,
					StartColumn: node.Span.StartColumn,
					EndLine:     node.Span.EndLine,
					EndColumn:   node.Span.EndColumn,
					Content:     node.Content,
				})
			}
		}
	}

	if opts.IncludeFiles {
		sortFiles(report.Files, opts.SortBy, opts.SortDesc)
	}

	if opts.IncludeByMessage {
		report.ByMessage = make([]MessageAnalysis, 0, len(messages))
		for msg, ma := range messages {
			for f := range messageFiles[msg] {
				ma.Files = append(ma.Files, f)
			}
			slices.Sort(ma.Files)
			report.ByMessage = append(report.ByMessage, *ma)
		}
		sortMessages(report.ByMessage, opts.SortBy, opts.SortDesc)
	}

	return report
}

func errorMessage(n *ast.Node) string {
	if e, ok := n.Element.(ast.Error); ok {
		return e.Message
	}
	return ""
}

func sortMessages(messages []MessageAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(messages, func(left, right MessageAnalysis) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Message, right.Message)
		}
		result := cmp.Compare(left.Count, right.Count)
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Message, right.Message)
		}
		return result
	})
}

func sortFiles(files []FileEntry, sortBy SortField, desc bool) {
	slices.SortStableFunc(files, func(left, right FileEntry) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Path, right.Path)
		}
		result := cmp.Compare(left.ErrorNodes, right.ErrorNodes)
		if desc {
			result = -result
		}
		return result
	})
}
