// Package langdetect guesses the source language of listing block bodies.
// It backs the "language" attribute of listing blocks that do not declare
// one with [source, lang].
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as used in [source, lang] attribute lists.
const (
	Go         = "go"
	Python     = "python"
	JavaScript = "javascript"
	JSON       = "json"
	YAML       = "yaml"
	HTML       = "html"
	SQL        = "sql"
	Rust       = "rust"
	Dockerfile = "dockerfile"
	Bash       = "bash"
)

// classifierCandidates limits the go-enry classifier to languages that are
// common in documentation.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// sample is a listing body prepared for pattern matching.
type sample struct {
	text    string
	trimmed string
}

// pattern recognizes one language from unambiguous markers.
type pattern struct {
	lang  string
	match func(s sample) bool
}

// patterns are tried in order; more specific languages come first.
//
//nolint:gochecknoglobals // Read-only pattern table.
var patterns = []pattern{
	{Go, isGo},
	{Python, isPython},
	{HTML, isHTML},
	{JSON, isJSON},
	{Dockerfile, isDockerfile},
	{SQL, isSQL},
	{Rust, isRust},
	{JavaScript, isJavaScript},
	{YAML, isYAML},
}

// Detect returns the language of a listing body. The second result is
// false when no language could be determined with confidence.
func Detect(content string) (string, bool) {
	if content == "" {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang([]byte(content)); safe {
		return normalize(lang), true
	}

	s := sample{text: content, trimmed: strings.TrimSpace(content)}
	for _, p := range patterns {
		if p.match(s) {
			return p.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier([]byte(content), classifierCandidates); safe && lang != "" {
		return normalize(lang), true
	}

	return "", false
}

func isGo(s sample) bool {
	return strings.HasPrefix(s.trimmed, "package ")
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go uses "import (", Python does not.
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || strings.HasPrefix(s.trimmed, "import ")) {
		return true
	}
	return strings.Contains(s.text, "__name__") || strings.Contains(s.text, "__main__")
}

func isHTML(s sample) bool {
	lower := strings.ToLower(s.trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isJSON(s sample) bool {
	return (strings.HasPrefix(s.trimmed, "{") || strings.HasPrefix(s.trimmed, "[")) &&
		strings.Contains(s.trimmed, `"`)
}

func isDockerfile(s sample) bool {
	return strings.HasPrefix(s.trimmed, "FROM ") ||
		(strings.Contains(s.text, "\nFROM ") && strings.Contains(s.text, "\nRUN ")) ||
		(strings.Contains(s.text, "WORKDIR ") && strings.Contains(s.text, "COPY "))
}

func isSQL(s sample) bool {
	upper := strings.ToUpper(s.trimmed)
	for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}
	return false
}

func isRust(s sample) bool {
	return strings.Contains(s.text, "fn main()") ||
		strings.Contains(s.text, "println!") ||
		strings.Contains(s.text, "let mut ")
}

func isJavaScript(s sample) bool {
	return strings.Contains(s.text, "=>") ||
		strings.Contains(s.text, "const ") ||
		strings.Contains(s.text, "let ") ||
		strings.Contains(s.text, "console.log")
}

// isYAML counts "key: value" lines and root list items.
func isYAML(s sample) bool {
	keys := 0
	for _, line := range strings.Split(s.text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") &&
			!strings.Contains(line, "(") &&
			!strings.Contains(line, "{") &&
			!strings.HasPrefix(line, `"`) {
			keys++
		}
		if strings.HasPrefix(line, "- ") {
			keys++
		}
	}
	return keys >= 2
}

// normalize converts go-enry language names to attribute values.
func normalize(lang string) string {
	if lang == "Shell" {
		return Bash
	}
	return strings.ToLower(lang)
}
