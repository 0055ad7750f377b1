package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/adocast/pkg/ast"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipeIndent = "│   "
	leafIndent = "    "
	attrBullet = "· "

	// minContentWidth is the narrowest content excerpt worth printing.
	minContentWidth = 8
	ellipsis        = "…"
)

// TreeFormatter renders a document as an indented tree.
type TreeFormatter struct {
	styles *Styles
	width  int
}

// NewTreeFormatter creates a formatter whose content excerpts are
// truncated to fit width columns.
func NewTreeFormatter(styles *Styles, width int) *TreeFormatter {
	if width <= 0 {
		width = DefaultWidth
	}
	return &TreeFormatter{styles: styles, width: width}
}

// FormatDocument renders every element of doc under a document header.
func (f *TreeFormatter) FormatDocument(doc *ast.Document) string {
	var builder strings.Builder

	header := f.styles.Bold.Render("document") +
		f.styles.Dim.Render(fmt.Sprintf(" (%d elements)", len(doc.Elements)))
	for _, attr := range doc.Attributes {
		header += " " + f.formatAttr(attr.Key, attr.Value.String())
	}
	builder.WriteString(header + "\n")

	for i, node := range doc.Elements {
		f.writeNode(&builder, node, "", i == len(doc.Elements)-1)
	}

	return builder.String()
}

// FormatNode renders a single subtree without a document header.
func (f *TreeFormatter) FormatNode(node *ast.Node) string {
	var builder strings.Builder
	f.writeNode(&builder, node, "", true)
	return builder.String()
}

func (f *TreeFormatter) writeNode(builder *strings.Builder, node *ast.Node, prefix string, last bool) {
	branch, indent := branchMid, pipeIndent
	if last {
		branch, indent = branchLast, leafIndent
	}

	line := f.styles.Branch.Render(prefix+branch) + f.label(node)
	line += f.excerpt(node.Content, lipgloss.Width(line))
	builder.WriteString(line + "\n")

	childPrefix := prefix + indent
	for _, attr := range node.Attributes {
		f.writeAttr(builder, childPrefix, f.formatAttr(attr.Key, attr.Value.String()))
	}
	for i, value := range node.PositionalAttributes {
		f.writeAttr(builder, childPrefix, f.formatAttr(strconv.Itoa(i), value.String()))
	}

	for i, child := range node.Children {
		f.writeNode(builder, child, childPrefix, i == len(node.Children)-1)
	}
}

func (f *TreeFormatter) writeAttr(builder *strings.Builder, prefix, attr string) {
	builder.WriteString(f.styles.Branch.Render(prefix+attrBullet) + attr + "\n")
}

// label renders the kind, element details and location of node.
func (f *TreeFormatter) label(node *ast.Node) string {
	kind := f.styles.Kind
	if node.Kind() == ast.KindError {
		kind = f.styles.Error
	}

	label := kind.Render(node.Kind().String())
	if detail := elementDetail(node.Element); detail != "" {
		if node.Kind() == ast.KindError {
			label += " " + f.styles.Error.Render(detail)
		} else {
			label += " " + f.styles.Detail.Render(detail)
		}
	}

	span := node.Span
	label += " " + f.styles.Location.Render(fmt.Sprintf("%d:%d-%d:%d",
		span.StartLine, span.StartColumn, span.EndLine, span.EndColumn))

	return label
}

// excerpt quotes content and truncates it to the columns left on the line.
func (f *TreeFormatter) excerpt(content string, used int) string {
	if content == "" {
		return ""
	}

	available := f.width - used - 1
	if available < minContentWidth {
		return ""
	}

	quoted := strconv.Quote(content)
	if lipgloss.Width(quoted) > available {
		quoted = truncate(quoted, available)
	}

	return " " + f.styles.Content.Render(quoted)
}

func (f *TreeFormatter) formatAttr(key, value string) string {
	return f.styles.AttrKey.Render(key) + "=" + f.styles.AttrValue.Render(strconv.Quote(value))
}

// elementDetail describes the payload of element, if any.
func elementDetail(element ast.Element) string {
	switch e := element.(type) {
	case ast.Title:
		return fmt.Sprintf("level=%d", e.Level)
	case ast.List:
		return e.Type.String()
	case ast.ListItem:
		return fmt.Sprintf("marker=%d", e.MarkerLength)
	case ast.TypedBlock:
		return e.Type.String()
	case ast.Error:
		return strconv.Quote(e.Message)
	default:
		return ""
	}
}

// truncate shortens str to maxLen runes, ending with an ellipsis.
func truncate(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= 1 {
		return ellipsis
	}
	return string(runes[:maxLen-1]) + ellipsis
}
