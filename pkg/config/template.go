package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

const templateBody = `# adocast configuration
# See: https://github.com/yaklabco/adocast

# Maximum nesting of example blocks and asciidoc table cells
max_depth: %d

# Guess the language of listing blocks without a [source,lang] attribute
detect_language: false

# Memoize files read while inlining images
cache_files: true

# Log level: debug, info, warn, or error
log_level: warn

# File patterns convert skips (glob patterns)
# ignore:
#   - "vendor/**"
#   - "**/_*.adoc"
`

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	body := fmt.Sprintf(templateBody, NewConfig().MaxDepth)

	switch strings.ToLower(opts.Format) {
	case "", "yaml", "yml":
		return []byte(body), nil
	case "json":
		return templateToJSON([]byte(body))
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

// templateToJSON converts the YAML template to indented JSON.
// Comments are lost in the conversion.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	var data map[string]any
	if err := yaml.Unmarshal(yamlContent, &data); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return buf.Bytes(), nil
}
