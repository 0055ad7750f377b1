// Package analysis summarizes a batch conversion into a machine-readable
// report: per-file node counts, failures and every recovered error node.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Report contains pre-computed views of a conversion run.
type Report struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	Totals Totals `json:"summary"`

	// Files has one entry per discovered file.
	Files []FileEntry `json:"files,omitempty"`

	// ByMessage groups error nodes by message.
	ByMessage []MessageAnalysis `json:"byMessage,omitempty"`

	// Errors lists every error node in file and document order.
	Errors []ErrorEntry `json:"errors,omitempty"`
}

// ErrorEntry locates one error node.
type ErrorEntry struct {
	FilePath    string `json:"filePath"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Content     string `json:"content,omitempty"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"files"`
	FilesFailed     int `json:"filesFailed"`
	FilesWithErrors int `json:"filesWithErrorNodes"`
	Nodes           int `json:"nodes"`
	ErrorNodes      int `json:"errorNodes"`
}

// HasFailures returns true if any file could not be converted.
func (t Totals) HasFailures() bool {
	return t.FilesFailed > 0
}

// HasErrorNodes returns true if any tree contains error nodes.
func (t Totals) HasErrorNodes() bool {
	return t.ErrorNodes > 0
}

// FileEntry describes the conversion of a single file.
type FileEntry struct {
	Path       string `json:"path"`
	Output     string `json:"output,omitempty"`
	Nodes      int    `json:"nodes"`
	ErrorNodes int    `json:"errorNodes"`
	Error      string `json:"error,omitempty"`
}

// MessageAnalysis aggregates error nodes sharing a message.
type MessageAnalysis struct {
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Files   []string `json:"files"`
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
