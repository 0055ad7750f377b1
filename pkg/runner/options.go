// Package runner converts many AsciiDoc files concurrently.
package runner

import "github.com/yaklabco/adocast/pkg/asciidoc"

// Options controls a batch conversion.
type Options struct {
	// Paths are files or directories to convert. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and anchors ExcludeGlobs.
	// Empty means the process working directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot,
	// treated as AsciiDoc. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int

	// Reader is applied to every document. Input is overwritten with each
	// file's path.
	Reader asciidoc.Options

	// CacheFiles shares one file cache across all documents of the run.
	CacheFiles bool

	// OutDir receives one JSON file per document, mirroring the layout
	// relative to WorkingDir. Empty means nothing is written.
	OutDir string

	// Compact writes JSON without indentation.
	Compact bool
}

// DefaultExtensions returns the file extensions recognized as AsciiDoc.
func DefaultExtensions() []string {
	return []string{".adoc", ".asciidoc", ".asc"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
