package runner_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
	"github.com/yaklabco/adocast/pkg/jsonast"
	"github.com/yaklabco/adocast/pkg/runner"
)

const (
	validDoc     = "= Title\n\nHello *world*\n"
	errorNodeDoc = "Title\n?????\n"
	syntaxErrDoc = "----\nunterminated\n"
)

func newRunner() *runner.Runner {
	return runner.New(asciidoc.NewReader())
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_WritesJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.adoc":      validDoc,
		"docs/guide.adoc": "plain text\n",
		"docs/notes.txt":  "ignored",
	})

	opts := runner.Options{WorkingDir: dir, OutDir: outDir, Jobs: 2}

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesWritten)
	assert.Zero(t, result.Stats.FilesErrored)
	assert.False(t, result.HasErrorNodes())

	guide := result.Files[0]
	assert.Equal(t, filepath.Join(dir, "docs", "guide.adoc"), guide.Path)
	assert.Equal(t, filepath.Join(outDir, "docs", "guide.json"), guide.Output)
	assert.True(t, guide.Written)

	data, err := os.ReadFile(filepath.Join(outDir, "index.json"))
	require.NoError(t, err)
	doc, err := jsonast.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, doc.Elements, 2)
	assert.Equal(t, ast.KindTitle, doc.Elements[0].Kind())

	source, ok := doc.Attributes.Get("source")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "index.adoc"), source)

	again, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Stats.FilesProcessed)
	assert.Zero(t, again.Stats.FilesWritten, "unchanged output is not rewritten")
}

func TestRunner_Run_NoOutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.adoc": validDoc})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	outcome := result.Files[0]
	assert.Empty(t, outcome.Output)
	assert.False(t, outcome.Written)
	require.NotNil(t, outcome.Document)
	assert.Equal(t, outcome.Nodes, result.Stats.Nodes)
	assert.Positive(t, outcome.Nodes)
}

func TestRunner_Run_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a-broken.adoc": syntaxErrDoc,
		"b-errors.adoc": errorNodeDoc,
		"c-valid.adoc":  validDoc,
	})

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	broken := result.Files[0]
	require.Error(t, broken.Error)
	require.ErrorIs(t, broken.Error, cst.ErrSyntax)
	assert.Contains(t, broken.Error.Error(), "a-broken.adoc")
	assert.Nil(t, broken.Document)

	withErrors := result.Files[1]
	require.NoError(t, withErrors.Error)
	assert.Positive(t, withErrors.ErrorNodes)

	assert.True(t, result.HasFailures())
	assert.True(t, result.HasErrorNodes())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesWithErrorNodes)
	assert.Equal(t, withErrors.ErrorNodes, result.Stats.ErrorNodes)
}

func TestRunner_Run_InlineImagesResolvePerDocument(t *testing.T) {
	t.Parallel()

	for _, cache := range []bool{false, true} {
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{
			"docs/logo.svg": "<svg/>",
			"docs/a.adoc":   "image::logo.svg[opts=inline]\n",
			"other/b.adoc":  "image::../docs/logo.svg[opts=inline]\n",
		})

		result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, CacheFiles: cache})
		require.NoError(t, err)
		require.Len(t, result.Files, 2)

		for _, outcome := range result.Files {
			require.NoError(t, outcome.Error)
			images := ast.FindByKind(outcome.Document, ast.KindImage)
			require.Len(t, images, 1, outcome.Path)

			content, ok := images[0].Attribute("content")
			require.True(t, ok, "cache=%v %s", cache, outcome.Path)
			assert.Equal(t, "<svg/>", content)
		}
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["docs/"+name+".adoc"] = validDoc
		files[name+".adoc"] = errorNodeDoc
	}
	writeTree(t, dir, files)

	serial, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Nodes, parallel.Files[i].Nodes)
		assert.Equal(t, serial.Files[i].ErrorNodes, parallel.Files[i].ErrorNodes)
	}
	assert.Equal(t, serial.Stats, parallel.Stats)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.adoc": validDoc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	work := filepath.FromSlash("/work")
	out := filepath.FromSlash("/out")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "top level", path: "/work/index.adoc", want: "/out/index.json"},
		{name: "nested", path: "/work/docs/guide.asciidoc", want: "/out/docs/guide.json"},
		{name: "outside working dir", path: "/elsewhere/notes.asc", want: "/out/elsewhere/notes.json"},
		{name: "dotted name", path: "/work/v1.2/release.notes.adoc", want: "/out/v1.2/release.notes.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runner.OutputPath(out, work, filepath.FromSlash(tt.path))
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}
