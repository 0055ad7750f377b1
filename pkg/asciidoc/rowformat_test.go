package asciidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRowFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []CellFormat
	}{
		{
			name:  "width and asciidoc",
			input: "1,a",
			want:  []CellFormat{{Length: 1, Kind: CellDefault}, {Length: 1, Kind: CellAsciidoc}},
		},
		{
			name:  "asciidoc with length",
			input: "a=2",
			want:  []CellFormat{{Length: 2, Kind: CellAsciidoc}},
		},
		{
			name:  "invalid length falls back to one",
			input: "x=oops",
			want:  []CellFormat{{Length: 1, Kind: CellDefault}},
		},
		{
			name:  "empty",
			input: "",
			want:  []CellFormat{{Length: 1, Kind: CellDefault}},
		},
		{
			name:  "zero length falls back to one",
			input: "a=0",
			want:  []CellFormat{{Length: 1, Kind: CellAsciidoc}},
		},
		{
			name:  "surrounding spaces",
			input: "a = 3, d=2",
			want:  []CellFormat{{Length: 3, Kind: CellAsciidoc}, {Length: 2, Kind: CellDefault}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseRowFormat(tt.input))
		})
	}
}

func TestCellKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", CellDefault.String())
	assert.Equal(t, "asciidoc", CellAsciidoc.String())
}
