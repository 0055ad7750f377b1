package asciidoc_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
	"github.com/yaklabco/adocast/pkg/environment"
)

func parse(t *testing.T, source string) *ast.Document {
	t.Helper()
	return parseWith(t, source, asciidoc.Options{}, nil)
}

func parseWith(t *testing.T, source string, opts asciidoc.Options, env environment.Env) *ast.Document {
	t.Helper()

	doc, err := asciidoc.NewReader().Parse(context.Background(), source, opts, env)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assertSpans(t, doc)

	return doc
}

// assertSpans checks that every node's content is the source text its span
// covers.
func assertSpans(t *testing.T, doc *ast.Document) {
	t.Helper()

	err := ast.WalkDocument(doc, func(n *ast.Node) error {
		assert.GreaterOrEqual(t, n.Span.End, n.Span.Start)
		assert.Equal(t, doc.Content[n.Span.Start:n.Span.End], n.Content, "node %s", n.Kind())
		assert.GreaterOrEqual(t, n.Span.StartLine, 1)
		assert.GreaterOrEqual(t, n.Span.StartColumn, 1)
		return nil
	})
	require.NoError(t, err)
}

func attr(t *testing.T, n *ast.Node, key string) string {
	t.Helper()

	value, ok := n.Attribute(key)
	require.True(t, ok, "missing attribute %q", key)
	return value
}

func TestParse_Header(t *testing.T) {
	t.Parallel()

	doc := parse(t, "= Header")
	require.Len(t, doc.Elements, 1)

	title := doc.Elements[0]
	assert.Equal(t, ast.Title{Level: 1}, title.Element)
	assert.Equal(t, "Header", attr(t, title, "name"))
	assert.Equal(t, "= Header", title.Content)
}

func TestParse_Titles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   ast.Element
	}{
		{name: "atx level 2", source: "== Section\n", want: ast.Title{Level: 2}},
		{name: "atx level 4", source: "==== Title\n", want: ast.Title{Level: 4}},
		{name: "markdown marker", source: "### Three\n", want: ast.Title{Level: 3}},
		{name: "setext equals", source: "Title\n=====\n", want: ast.Title{Level: 1}},
		{name: "setext dashes", source: "Title\n------\n", want: ast.Title{Level: 2}},
		{name: "setext tildes", source: "Title\n~~~~~\n", want: ast.Title{Level: 3}},
		{name: "setext carets", source: "Title\n^^^^\n", want: ast.Title{Level: 4}},
		{
			name:   "unsupported underline",
			source: "Title\n?????\n",
			want:   ast.Error{Message: "Unsupported title formatting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tt.source)
			require.Len(t, doc.Elements, 1)
			assert.Equal(t, tt.want, doc.Elements[0].Element)
		})
	}
}

func TestParse_TitleName(t *testing.T) {
	t.Parallel()

	doc := parse(t, "Intro\n\n== Getting Started\n")
	require.Len(t, doc.Elements, 2)

	name, ok := doc.Elements[1].Attributes.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Getting Started", name)
}

func TestParse_ExampleBlock(t *testing.T) {
	t.Parallel()

	doc := parse(t, "====\nInside\n====\n")
	require.Len(t, doc.Elements, 1)

	example := doc.Elements[0]
	assert.Equal(t, ast.TypedBlock{Type: ast.BlockExample}, example.Element)
	assert.Equal(t, 1, example.Attributes.Count("content"))
	assert.Equal(t, "Inside", attr(t, example, "content"))

	require.Len(t, example.Children, 1)
	assert.Equal(t, ast.KindParagraph, example.Children[0].Kind())
	assert.Equal(t, "Inside", example.Children[0].Content)
	assert.Equal(t, 2, example.Children[0].Span.StartLine)
}

func TestParse_NestedExampleBlocks(t *testing.T) {
	t.Parallel()

	doc := parse(t, "=====\n====\ntext\n====\n=====\n")
	require.Len(t, doc.Elements, 1)

	outer := doc.Elements[0]
	require.Len(t, outer.Children, 1)

	inner := outer.Children[0]
	assert.Equal(t, ast.TypedBlock{Type: ast.BlockExample}, inner.Element)
	require.Len(t, inner.Children, 1)
	assert.Equal(t, "text", inner.Children[0].Content)
	assert.Equal(t, 3, inner.Children[0].Span.StartLine)
}

func TestParse_ListingBlock(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[source, bash]\n----\necho \"hi\"\n----\n")
	require.Len(t, doc.Elements, 1)

	listing := doc.Elements[0]
	assert.Equal(t, ast.TypedBlock{Type: ast.BlockListing}, listing.Element)
	assert.Equal(t, `echo "hi"`, attr(t, listing, "content"))
	assert.Equal(t, []string{"source", "bash"}, listing.Positional())
	assert.Equal(t, "bash", attr(t, listing, "language"))
	assert.Empty(t, listing.Children)
}

func TestParse_DelimitedKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		want    ast.Element
		content string
	}{
		{name: "comment", source: "////\nnot rendered\n////\n", want: ast.TypedBlock{Type: ast.BlockComment}, content: "not rendered"},
		{name: "literal", source: "....\n  raw\n....\n", want: ast.TypedBlock{Type: ast.BlockListing}, content: "  raw"},
		{name: "empty listing", source: "----\n----\n", want: ast.TypedBlock{Type: ast.BlockListing}, content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tt.source)
			require.Len(t, doc.Elements, 1)
			assert.Equal(t, tt.want, doc.Elements[0].Element)
			assert.Equal(t, tt.content, attr(t, doc.Elements[0], "content"))
		})
	}
}

func TestParse_DelimitedMetadata(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[[build]]\n.Build it\n[source,go]\n----\nfunc main() {}\n----\n")
	require.Len(t, doc.Elements, 1)

	listing := doc.Elements[0]
	assert.Equal(t, "build", attr(t, listing, "anchor"))
	assert.Equal(t, "Build it", attr(t, listing, "title"))
	assert.Equal(t, "go", attr(t, listing, "language"))
	assert.Equal(t, 1, listing.Span.StartLine)
}

func TestParse_DetectLanguage(t *testing.T) {
	t.Parallel()

	source := "----\npackage main\n----\n"

	doc := parse(t, source)
	_, ok := doc.Elements[0].Attribute("language")
	assert.False(t, ok)

	doc = parseWith(t, source, asciidoc.Options{DetectLanguage: true}, nil)
	assert.Equal(t, "go", attr(t, doc.Elements[0], "language"))
}

func TestParse_Table(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[cols=\"1,a\"]\n|===\n|one |*two*\n|three |four |five\n|===\n")
	require.Len(t, doc.Elements, 1)

	table := doc.Elements[0]
	assert.Equal(t, ast.KindTable, table.Kind())
	assert.Equal(t, "1,a", attr(t, table, "cols"))
	assert.Equal(t, "|one |*two*\n|three |four |five", attr(t, table, "content"))

	require.Len(t, table.Children, 1)
	row := table.Children[0]
	assert.Equal(t, ast.KindTableRow, row.Kind())
	require.Len(t, row.Children, 5)

	var contents, formats []string
	for _, cell := range row.Children {
		assert.Equal(t, ast.KindTableCell, cell.Kind())
		assert.Equal(t, "1", attr(t, cell, "colwidth"))
		contents = append(contents, cell.Content)
		formats = append(formats, attr(t, cell, "format"))
	}
	assert.Equal(t, []string{"one", "*two*", "three", "four", "five"}, contents)
	assert.Equal(t, []string{"default", "asciidoc", "default", "asciidoc", "default"}, formats)

	assert.Empty(t, row.Children[0].Children)

	strong := row.Children[1]
	require.Len(t, strong.Children, 1)
	paragraph := strong.Children[0]
	assert.Equal(t, ast.KindParagraph, paragraph.Kind())
	require.Len(t, paragraph.Children, 1)
	assert.Equal(t, "strong", attr(t, paragraph.Children[0], "style"))
}

func TestParse_TableRowsAndEmptyCells(t *testing.T) {
	t.Parallel()

	source := "|===\n|a||b\n\n|c\n|===\n"
	doc := parse(t, source)

	table := doc.Elements[0]
	require.Len(t, table.Children, 2)

	first := table.Children[0]
	require.Len(t, first.Children, 3)

	empty := first.Children[1]
	assert.Empty(t, empty.Content)
	assert.Equal(t, 8, empty.Span.Start)
	assert.Equal(t, 8, empty.Span.End)
	assert.Equal(t, "default", attr(t, empty, "format"))

	require.Len(t, table.Children[1].Children, 1)
	assert.Equal(t, "c", table.Children[1].Children[0].Content)
}

func TestParse_EmptyAsciidocCell(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[cols=\"a\"]\n|===\n|*x*||y\n|===\n")

	row := doc.Elements[0].Children[0]
	require.Len(t, row.Children, 3)

	empty := row.Children[1]
	assert.Equal(t, "asciidoc", attr(t, empty, "format"))
	assert.True(t, empty.Span.IsEmpty())
	assert.Empty(t, empty.Children)

	require.Len(t, row.Children[0].Children, 1)
	assert.Equal(t, ast.KindParagraph, row.Children[0].Children[0].Kind())
}

func TestParse_Lists(t *testing.T) {
	t.Parallel()

	doc := parse(t, "* one\n** two\n* three\n")
	require.Len(t, doc.Elements, 1)

	list := doc.Elements[0]
	assert.Equal(t, ast.List{Type: ast.ListBullet}, list.Element)
	require.Len(t, list.Children, 2)

	first := list.Children[0]
	assert.Equal(t, ast.ListItem{MarkerLength: 1}, first.Element)
	require.Len(t, first.Children, 2)
	assert.Equal(t, ast.KindParagraph, first.Children[0].Kind())
	assert.Equal(t, "one", first.Children[0].Content)

	nested := first.Children[1]
	assert.Equal(t, ast.List{Type: ast.ListBullet}, nested.Element)
	require.Len(t, nested.Children, 1)
	assert.Equal(t, ast.ListItem{MarkerLength: 2}, nested.Children[0].Element)

	assert.Equal(t, "three", list.Children[1].Children[0].Content)
}

func TestParse_NumberedListWithContinuation(t *testing.T) {
	t.Parallel()

	doc := parse(t, "1. build\n+\n----\nmake\n----\n10. test\n")
	require.Len(t, doc.Elements, 1)

	list := doc.Elements[0]
	assert.Equal(t, ast.List{Type: ast.ListNumber}, list.Element)
	require.Len(t, list.Children, 2)

	first := list.Children[0]
	assert.Equal(t, ast.ListItem{MarkerLength: 2}, first.Element)
	require.Len(t, first.Children, 2)
	assert.Equal(t, ast.TypedBlock{Type: ast.BlockListing}, first.Children[1].Element)
	assert.Equal(t, "make", attr(t, first.Children[1], "content"))

	assert.Equal(t, ast.ListItem{MarkerLength: 3}, list.Children[1].Element)
}

func TestParse_Inlines(t *testing.T) {
	t.Parallel()

	doc := parse(t, "Use `code` and *bold* or _em_ see <<sec-1,Section One>> and https://example.com[Example].")
	require.Len(t, doc.Elements, 1)

	children := doc.Elements[0].Children
	require.Len(t, children, 11)

	kinds := make([]ast.ElementKind, 0, len(children))
	for _, c := range children {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []ast.ElementKind{
		ast.KindText, ast.KindStyled,
		ast.KindText, ast.KindStyled,
		ast.KindText, ast.KindStyled,
		ast.KindText, ast.KindCrossReference,
		ast.KindText, ast.KindLink,
		ast.KindText,
	}, kinds)

	assert.Equal(t, "monospaced", attr(t, children[1], "style"))
	assert.Equal(t, "code", attr(t, children[1], "content"))
	assert.Equal(t, "strong", attr(t, children[3], "style"))
	assert.Equal(t, "bold", attr(t, children[3], "content"))
	assert.Equal(t, "em", attr(t, children[5], "style"))
	assert.Equal(t, "em", attr(t, children[5], "content"))

	xref := children[7]
	assert.Equal(t, "sec-1", attr(t, xref, "id"))
	assert.Equal(t, "Section One", attr(t, xref, "content"))

	link := children[9]
	assert.Equal(t, "https://example.com", attr(t, link, "url"))
	assert.Equal(t, "https", attr(t, link, "protocol"))
	require.Len(t, link.Children, 1)
	assert.Equal(t, ast.KindText, link.Children[0].Kind())
	assert.Equal(t, "Example", link.Children[0].Content)
}

func TestParse_ColumnsCountCharacters(t *testing.T) {
	t.Parallel()

	doc := parse(t, "héé *x*\n")
	require.Len(t, doc.Elements, 1)

	children := doc.Elements[0].Children
	require.Len(t, children, 2)

	strong := children[1]
	assert.Equal(t, ast.KindStyled, strong.Kind())
	assert.Equal(t, 6, strong.Span.Start)
	assert.Equal(t, 9, strong.Span.End)
	assert.Equal(t, 1, strong.Span.StartLine)
	assert.Equal(t, 5, strong.Span.StartColumn)
	assert.Equal(t, 8, strong.Span.EndColumn)
}

func TestParse_XrefWithoutText(t *testing.T) {
	t.Parallel()

	doc := parse(t, "See <<install>>.")
	xref := doc.Elements[0].Children[1]

	assert.Equal(t, "install", attr(t, xref, "id"))
	_, ok := xref.Attribute("content")
	assert.False(t, ok)
}

func TestParse_LinkMacroWithAttributes(t *testing.T) {
	t.Parallel()

	doc := parse(t, "link:https://example.org[role=ext, window=_blank]")
	link := doc.Elements[0].Children[0]

	assert.Equal(t, ast.KindLink, link.Kind())
	assert.Equal(t, "https://example.org", attr(t, link, "url"))
	assert.Equal(t, "ext", attr(t, link, "role"))
	assert.Equal(t, "_blank", attr(t, link, "window"))
	assert.Empty(t, link.Children)
}

func TestParse_MonospacedAnchor(t *testing.T) {
	t.Parallel()

	doc := parse(t, "`[[ref]]value`")
	styled := doc.Elements[0].Children[0]

	assert.Equal(t, "monospaced", attr(t, styled, "style"))
	assert.Equal(t, "value", attr(t, styled, "content"))
	assert.Equal(t, "ref", attr(t, styled, "anchor"))
}

func TestParse_BlockMetadata(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[[intro]]\n.Intro\nSome para\n\n[[sec]]\n== Section\n")
	require.Len(t, doc.Elements, 2)

	paragraph := doc.Elements[0]
	assert.Equal(t, ast.KindParagraph, paragraph.Kind())
	assert.Equal(t, "Some para", paragraph.Content)
	assert.Equal(t, "intro", attr(t, paragraph, "anchor"))
	assert.Equal(t, "Intro", attr(t, paragraph, "title"))

	section := doc.Elements[1]
	assert.Equal(t, ast.Title{Level: 2}, section.Element)
	assert.Equal(t, "sec", attr(t, section, "anchor"))
	assert.Equal(t, "Section", attr(t, section, "name"))
}

func TestParse_ImageInlineFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, logging.LevelError))

	source := "image::missing.svg[Logo, opts=inline]\n"
	doc, err := asciidoc.NewReader().Parse(ctx, source, asciidoc.Options{}, environment.NewIO(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)

	image := doc.Elements[0]
	assert.Equal(t, ast.KindImage, image.Kind())
	assert.Equal(t, "missing.svg", attr(t, image, "path"))
	assert.Equal(t, "inline", attr(t, image, "opts"))
	assert.Equal(t, []string{"Logo"}, image.Positional())

	_, ok := image.Attribute("content")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "cannot read content of image file")
	assert.Contains(t, buf.String(), "missing.svg")
}

func TestParse_ImageInline(t *testing.T) {
	t.Parallel()

	cache := environment.NewCache(nil)
	cache.Put("logo.svg", "<svg/>")

	doc := parseWith(t, "image::logo.svg[opts=inline]\n", asciidoc.Options{}, cache)
	assert.Equal(t, "<svg/>", attr(t, doc.Elements[0], "content"))
}

func TestParse_ImageURL(t *testing.T) {
	t.Parallel()

	doc := parse(t, "image::https://example.com/a.png[]\n")
	image := doc.Elements[0]

	assert.Equal(t, []string{"https://example.com/a.png"}, image.Attributes.GetAll("path"))
	_, ok := image.Attribute("opts")
	assert.False(t, ok)
}

func TestParse_SourceAttribute(t *testing.T) {
	t.Parallel()

	doc := parseWith(t, "text", asciidoc.Options{Input: "docs/guide.adoc"}, nil)
	source, ok := doc.Attributes.Get("source")
	require.True(t, ok)
	assert.Equal(t, "docs/guide.adoc", source)

	doc = parse(t, "text")
	assert.Empty(t, doc.Attributes)
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		context string
	}{
		{name: "top level", source: "----\nunterminated\n", context: "parse document"},
		{name: "inside example", source: "====\n----\nunterminated\n====\n", context: "example block at 1:1"},
		{name: "inside table", source: "text\n\n|===\nnot a row\n|===\n", context: "table at 3:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := asciidoc.NewReader().Parse(context.Background(), tt.source, asciidoc.Options{}, nil)
			require.Error(t, err)
			assert.Nil(t, doc)
			require.ErrorIs(t, err, cst.ErrSyntax)
			assert.Contains(t, err.Error(), tt.context)
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	source := "=====\n====\ntext\n====\n=====\n"

	_, err := asciidoc.NewReader().Parse(context.Background(), source, asciidoc.Options{MaxDepth: 1}, nil)
	require.ErrorIs(t, err, asciidoc.ErrMaxDepth)

	doc := parseWith(t, source, asciidoc.Options{MaxDepth: 2}, nil)
	require.Len(t, doc.Elements, 1)
}

func TestTransform_UnknownRule(t *testing.T) {
	t.Parallel()

	source := "word"
	nodes := []*cst.Node{
		cst.NewNode(cst.Word, source, 0, 4),
		cst.NewNode(cst.Continuation, source, 4, 4),
		cst.NewNode(cst.EOI, source, 4, 4),
	}

	doc, err := asciidoc.NewReader().Transform(context.Background(), source, nodes, asciidoc.Options{}, nil)
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, ast.Error{Message: "Not implemented: word"}, doc.Elements[0].Element)
	assert.Equal(t, "word", doc.Elements[0].Content)
}

func TestTransform_MalformedNamedAttribute(t *testing.T) {
	t.Parallel()

	source := "image::a.png[x=]"
	named := cst.NewNode(cst.NamedAttribute, source, 13, 15, cst.NewNode(cst.Identifier, source, 13, 14))
	list := cst.NewNode(cst.InlineAttributeList, source, 13, 15, cst.NewNode(cst.Attribute, source, 13, 15, named))
	image := cst.NewNode(cst.ImageBlock, source, 0, 16, cst.NewNode(cst.Path, source, 7, 12), list)

	doc, err := asciidoc.NewReader().Transform(context.Background(), source, []*cst.Node{image}, asciidoc.Options{}, nil)
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)

	node := doc.Elements[0]
	assert.Equal(t, ast.KindImage, node.Kind())
	assert.Equal(t, "a.png", attr(t, node, "path"))
	_, ok := node.Attribute("x")
	assert.False(t, ok)

	require.Len(t, node.Children, 1)
	assert.Equal(t, ast.Error{Message: "Malformed named attribute"}, node.Children[0].Element)
	assert.Equal(t, "x=", node.Children[0].Content)
}

func TestTransform_UnknownListPart(t *testing.T) {
	t.Parallel()

	source := "* item"
	item := cst.NewNode(cst.BulletListElement, source, 0, 6,
		cst.NewNode(cst.Bullet, source, 0, 1),
		cst.NewNode(cst.Word, source, 2, 6),
	)
	list := cst.NewNode(cst.List, source, 0, 6, cst.NewNode(cst.BulletList, source, 0, 6, item))

	doc, err := asciidoc.NewReader().Transform(context.Background(), source, []*cst.Node{list}, asciidoc.Options{}, nil)
	require.NoError(t, err)

	listItem := doc.Elements[0].Children[0]
	assert.Equal(t, ast.ListItem{MarkerLength: 1}, listItem.Element)
	require.Len(t, listItem.Children, 1)
	assert.Equal(t, ast.KindError, listItem.Children[0].Kind())
	assert.Equal(t, "item", listItem.Children[0].Content)
}
