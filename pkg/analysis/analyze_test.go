package analysis

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/runner"
)

func errorNode(msg, content string, line int) *ast.Node {
	return &ast.Node{
		Element: ast.Error{Message: msg},
		Content: content,
		Span:    ast.Span{StartLine: line, StartColumn: 1, EndLine: line, EndColumn: len(content) + 1},
	}
}

func outcome(path string, elements ...*ast.Node) runner.FileOutcome {
	doc := &ast.Document{Elements: elements}

	var nodes, errs int
	_ = ast.WalkDocument(doc, func(n *ast.Node) error {
		nodes++
		if n.Kind() == ast.KindError {
			errs++
		}
		return nil
	})

	return runner.FileOutcome{Path: path, Document: doc, Nodes: nodes, ErrorNodes: errs}
}

func sampleResult() *runner.Result {
	work := filepath.FromSlash("/work")

	paragraph := &ast.Node{
		Element:  ast.Paragraph{},
		Children: []*ast.Node{errorNode("Malformed named attribute", "x=", 2)},
	}

	return &runner.Result{Files: []runner.FileOutcome{
		outcome(filepath.Join(work, "a.adoc"), &ast.Node{Element: ast.Text{}}),
		{Path: filepath.Join(work, "b.adoc"), Error: errors.New("parse document: syntax error")},
		outcome(filepath.Join(work, "c.adoc"),
			errorNode("Unsupported title formatting", "Title\n?????", 1),
			paragraph,
		),
		outcome(filepath.Join(work, "d.adoc"), errorNode("Unsupported title formatting", "T\n~", 4)),
	}}
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Zero(t, report.Totals)
	assert.Empty(t, report.Files)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	assert.Equal(t, Totals{
		Files:           4,
		FilesFailed:     1,
		FilesWithErrors: 2,
		Nodes:           5,
		ErrorNodes:      3,
	}, report.Totals)
	assert.True(t, report.Totals.HasFailures())
	assert.True(t, report.Totals.HasErrorNodes())
	assert.False(t, report.Timestamp.IsZero())
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = filepath.FromSlash("/work")

	report := Analyze(sampleResult(), opts)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, ErrorEntry{
		FilePath:    "c.adoc",
		Message:     "Unsupported title formatting",
		StartLine:   1,
		StartColumn: 1,
		EndLine:     1,
		EndColumn:   12,
		Content:     "Title\n?????",
	}, report.Errors[0])
	assert.Equal(t, "Malformed named attribute", report.Errors[1].Message)
	assert.Equal(t, "d.adoc", report.Errors[2].FilePath)
}

func TestAnalyze_ByMessage(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = filepath.FromSlash("/work")

	report := Analyze(sampleResult(), opts)

	assert.Equal(t, []MessageAnalysis{
		{Message: "Unsupported title formatting", Count: 2, Files: []string{"c.adoc", "d.adoc"}},
		{Message: "Malformed named attribute", Count: 1, Files: []string{"c.adoc"}},
	}, report.ByMessage)

	opts.SortBy = SortByAlpha
	report = Analyze(sampleResult(), opts)
	require.Len(t, report.ByMessage, 2)
	assert.Equal(t, "Malformed named attribute", report.ByMessage[0].Message)
}

func TestAnalyze_Files(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sortBy SortField
		desc   bool
		want   []string
	}{
		{name: "most errors first", sortBy: SortByCount, desc: true, want: []string{"c.adoc", "d.adoc", "a.adoc", "b.adoc"}},
		{name: "fewest errors first", sortBy: SortByCount, want: []string{"a.adoc", "b.adoc", "d.adoc", "c.adoc"}},
		{name: "alphabetical", sortBy: SortByAlpha, desc: true, want: []string{"a.adoc", "b.adoc", "c.adoc", "d.adoc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.WorkingDir = filepath.FromSlash("/work")
			opts.SortBy = tt.sortBy
			opts.SortDesc = tt.desc

			report := Analyze(sampleResult(), opts)

			paths := make([]string, 0, len(report.Files))
			for _, f := range report.Files {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestAnalyze_FailedFileEntry(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.SortBy = SortByAlpha
	opts.WorkingDir = filepath.FromSlash("/work")

	report := Analyze(sampleResult(), opts)

	require.Len(t, report.Files, 4)
	assert.Equal(t, FileEntry{Path: "b.adoc", Error: "parse document: syntax error"}, report.Files[1])
}

func TestAnalyze_ExcludedViews(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{})

	assert.Empty(t, report.Files)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.ByMessage)
	assert.Equal(t, 3, report.Totals.ErrorNodes)
}
