package runner

import "github.com/yaklabco/adocast/pkg/ast"

// FileOutcome is the conversion result of one file.
type FileOutcome struct {
	// Path is the absolute path of the source file.
	Path string

	// Output is the JSON file written for Path, if any.
	Output string

	// Document is the parsed tree. Nil when Error is set.
	Document *ast.Document

	// Nodes and ErrorNodes count the tree's nodes.
	Nodes      int
	ErrorNodes int

	// Written is false when OutDir is empty or the output was unchanged.
	Written bool

	// Error is set when the file could not be read, parsed or written.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesWritten    int

	// FilesWithErrorNodes counts documents that parsed but contain
	// recovered errors.
	FilesWithErrorNodes int

	Nodes      int
	ErrorNodes int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed to convert.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasErrorNodes reports whether any converted tree contains error nodes.
func (r *Result) HasErrorNodes() bool {
	if r == nil {
		return false
	}
	return r.Stats.ErrorNodes > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Nodes += outcome.Nodes
	r.Stats.ErrorNodes += outcome.ErrorNodes

	if outcome.ErrorNodes > 0 {
		r.Stats.FilesWithErrorNodes++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
}

// countNodes returns the number of nodes and error nodes in doc.
func countNodes(doc *ast.Document) (int, int) {
	var nodes, errs int
	_ = ast.WalkDocument(doc, func(n *ast.Node) error {
		nodes++
		if n.Kind() == ast.KindError {
			errs++
		}
		return nil
	})
	return nodes, errs
}
