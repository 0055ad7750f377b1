package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/adocast/internal/ui/pretty"
	"github.com/yaklabco/adocast/pkg/ast"
)

func sampleDocument() *ast.Document {
	title := &ast.Node{
		Element: ast.Title{Level: 1},
		Span:    ast.Span{Start: 0, End: 7, StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 8},
		Content: "= Hello",
	}
	title.AddAttribute("name", ast.Ref("Hello", ast.Span{Start: 2, End: 7}))

	textSpan := ast.Span{Start: 9, End: 14, StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 6}
	paragraph := &ast.Node{Element: ast.Paragraph{}, Span: textSpan, Content: "world"}
	paragraph.AppendChild(&ast.Node{Element: ast.Text{}, Span: textSpan, Content: "world"})

	return &ast.Document{
		Content:    "= Hello\n\nworld",
		Elements:   []*ast.Node{title, paragraph},
		Attributes: ast.Attributes{{Key: "source", Value: ast.Owned("a.adoc")}},
	}
}

func TestFormatDocument(t *testing.T) {
	formatter := pretty.NewTreeFormatter(pretty.NewStyles(false), 100)

	want := `document (2 elements) source="a.adoc"
├── title level=1 1:1-1:8 "= Hello"
│   · name="Hello"
└── paragraph 3:1-3:6 "world"
    └── text 3:1-3:6 "world"
`
	assert.Equal(t, want, formatter.FormatDocument(sampleDocument()))
}

func TestFormatDocument_Empty(t *testing.T) {
	formatter := pretty.NewTreeFormatter(pretty.NewStyles(false), 0)
	assert.Equal(t, "document (0 elements)\n", formatter.FormatDocument(&ast.Document{}))
}

func TestFormatNode(t *testing.T) {
	long := &ast.Node{
		Element: ast.Text{},
		Span:    ast.Span{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 40},
		Content: "abcdefghijklmnopqrstuvwxyz",
	}

	tests := []struct {
		name  string
		node  *ast.Node
		width int
		want  string
	}{
		{
			name:  "truncated excerpt",
			node:  long,
			width: 30,
			want:  "└── text 1:1-1:40 \"abcdefghij…\n",
		},
		{
			name:  "no room for excerpt",
			node:  long,
			width: 20,
			want:  "└── text 1:1-1:40\n",
		},
		{
			name: "error node",
			node: &ast.Node{
				Element: ast.Error{Message: "Not implemented: Foo"},
				Span:    ast.Span{StartLine: 2, StartColumn: 3, EndLine: 2, EndColumn: 3},
			},
			width: 80,
			want:  "└── error \"Not implemented: Foo\" 2:3-2:3\n",
		},
		{
			name: "positional attributes and details",
			node: &ast.Node{
				Element:              ast.TypedBlock{Type: ast.BlockListing},
				Span:                 ast.Span{StartLine: 1, StartColumn: 1, EndLine: 3, EndColumn: 5},
				PositionalAttributes: []ast.AttributeValue{ast.Owned("source"), ast.Owned("go")},
			},
			width: 80,
			want:  "└── typed_block listing 1:1-3:5\n    · 0=\"source\"\n    · 1=\"go\"\n",
		},
		{
			name: "list item marker",
			node: &ast.Node{
				Element: ast.ListItem{MarkerLength: 2},
				Span:    ast.Span{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 6},
				Content: "** a\n",
			},
			width: 80,
			want:  "└── list_item marker=2 1:1-1:6 \"** a\\n\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := pretty.NewTreeFormatter(pretty.NewStyles(false), tt.width)
			assert.Equal(t, tt.want, formatter.FormatNode(tt.node))
		})
	}
}
