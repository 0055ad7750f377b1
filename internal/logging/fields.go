package logging

// Field names for structured logging.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldFormat = "format"

	// Document fields.
	FieldElements = "elements"
	FieldLine     = "line"
	FieldOffset   = "offset"
	FieldDepth    = "depth"
	FieldMaxDepth = "max_depth"

	// Configuration fields.
	FieldConfig = "config"
	FieldSource = "source"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
