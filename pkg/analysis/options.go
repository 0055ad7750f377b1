package analysis

// SortField specifies how grouped results are ordered.
type SortField string

const (
	// SortByCount sorts by error node count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by path or message, always ascending.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	// IncludeErrors includes the flat list of error nodes.
	IncludeErrors bool

	// IncludeFiles includes one entry per converted file.
	IncludeFiles bool

	// IncludeByMessage groups error nodes by message.
	IncludeByMessage bool

	// SortBy orders Files and ByMessage.
	SortBy SortField

	// SortDesc puts the highest counts first for SortByCount.
	SortDesc bool

	// WorkingDir makes reported paths relative. Empty keeps them as-is.
	WorkingDir string
}

// DefaultOptions returns Options including every view, highest counts first.
func DefaultOptions() Options {
	return Options{
		IncludeErrors:    true,
		IncludeFiles:     true,
		IncludeByMessage: true,
		SortBy:           SortByCount,
		SortDesc:         true,
	}
}
