package asciidoc

import (
	"strconv"
	"strings"
)

// CellKind says how the content of a table cell is interpreted.
type CellKind uint8

const (
	// CellDefault cells hold verbatim text.
	CellDefault CellKind = iota
	// CellAsciidoc cells hold a nested document.
	CellAsciidoc
)

func (k CellKind) String() string {
	if k == CellAsciidoc {
		return "asciidoc"
	}
	return "default"
}

// CellFormat is the format of one table column.
type CellFormat struct {
	Length int
	Kind   CellKind
}

//nolint:gochecknoglobals // Immutable default.
var defaultCellFormat = CellFormat{Length: 1, Kind: CellDefault}

// ParseRowFormat parses a cols specification such as "a=2,1". Each comma
// separated entry is kind=length; kind "a" selects CellAsciidoc, anything
// else CellDefault. A missing or invalid length is 1.
func ParseRowFormat(input string) []CellFormat {
	entries := strings.Split(input, ",")
	formats := make([]CellFormat, 0, len(entries))

	for _, entry := range entries {
		kindText, lengthText, _ := strings.Cut(entry, "=")

		format := defaultCellFormat
		if strings.TrimSpace(kindText) == "a" {
			format.Kind = CellAsciidoc
		}
		if n, err := strconv.Atoi(strings.TrimSpace(lengthText)); err == nil && n > 0 {
			format.Length = n
		}

		formats = append(formats, format)
	}

	return formats
}
