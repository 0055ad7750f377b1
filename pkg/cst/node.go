// Package cst provides the concrete syntax tree for AsciiDoc sources and the
// grammar that produces it. Every grammar rule that matches produces one
// Node; nodes carry absolute byte offsets into the source they were parsed
// from, including nodes produced by re-entering the grammar on a window of
// that source.
package cst

// Rule names a grammar rule and tags the nodes it produces.
type Rule uint8

// Grammar rules. The vocabulary is fixed; consumers switch over it.
const (
	Asciidoc Rule = iota
	EOI

	// Titles.
	Header
	TitleBlock
	Title
	AtxTitleStyle
	SetextTitleStyle
	Line

	// Generic blocks.
	Block
	Paragraph
	OtherInline
	Inline

	// Lists.
	List
	BulletList
	NumberedList
	BulletListElement
	NumberBulletListElement
	Bullet
	NumberBullet
	ListElement
	ListParagraph
	OtherListInline
	Continuation

	// Delimited blocks.
	DelimitedBlock
	DelimitedComment
	DelimitedSource
	DelimitedLiteral
	DelimitedExample
	DelimitedTable
	DelimitedInner

	// Block metadata.
	Anchor
	InlineAnchor
	Identifier
	AttributeList
	InlineAttributeList
	Attribute
	AttributeValue
	NamedAttribute
	AttributeText
	BlockTitle

	// Images and links.
	ImageBlock
	Path
	URL
	Protocol
	Link
	LinkText
	Xref
	Word

	// Inline styles.
	Monospaced
	Strong
	Emphasized
	LineChar

	// Tables.
	TableInner
	TableRow
	TableCell
	TableCellContent
)

//nolint:gochecknoglobals // Read-only lookup table.
var ruleNames = [...]string{
	Asciidoc:                "asciidoc",
	EOI:                     "EOI",
	Header:                  "header",
	TitleBlock:              "title_block",
	Title:                   "title",
	AtxTitleStyle:           "atx_title_style",
	SetextTitleStyle:        "setext_title_style",
	Line:                    "line",
	Block:                   "block",
	Paragraph:               "paragraph",
	OtherInline:             "other_inline",
	Inline:                  "inline",
	List:                    "list",
	BulletList:              "bullet_list",
	NumberedList:            "numbered_list",
	BulletListElement:       "bullet_list_element",
	NumberBulletListElement: "number_bullet_list_element",
	Bullet:                  "bullet",
	NumberBullet:            "number_bullet",
	ListElement:             "list_element",
	ListParagraph:           "list_paragraph",
	OtherListInline:         "other_list_inline",
	Continuation:            "continuation",
	DelimitedBlock:          "delimited_block",
	DelimitedComment:        "delimited_comment",
	DelimitedSource:         "delimited_source",
	DelimitedLiteral:        "delimited_literal",
	DelimitedExample:        "delimited_example",
	DelimitedTable:          "delimited_table",
	DelimitedInner:          "delimited_inner",
	Anchor:                  "anchor",
	InlineAnchor:            "inline_anchor",
	Identifier:              "identifier",
	AttributeList:           "attribute_list",
	InlineAttributeList:     "inline_attribute_list",
	Attribute:               "attribute",
	AttributeValue:          "attribute_value",
	NamedAttribute:          "named_attribute",
	AttributeText:           "attribute_text",
	BlockTitle:              "blocktitle",
	ImageBlock:              "image_block",
	Path:                    "path",
	URL:                     "url",
	Protocol:                "protocol",
	Link:                    "link",
	LinkText:                "link_text",
	Xref:                    "xref",
	Word:                    "word",
	Monospaced:              "monospaced",
	Strong:                  "strong",
	Emphasized:              "emphasized",
	LineChar:                "linechar",
	TableInner:              "table_inner",
	TableRow:                "table_row",
	TableCell:               "table_cell",
	TableCellContent:        "table_cell_content",
}

// String returns the grammar name of the rule.
func (r Rule) String() string {
	if int(r) < len(ruleNames) && ruleNames[r] != "" {
		return ruleNames[r]
	}
	return "unknown"
}

// Node is a matched grammar rule.
type Node struct {
	// Rule is the grammar rule that produced the node.
	Rule Rule

	// Start and End are absolute byte offsets into the source, End exclusive.
	Start int
	End   int

	// Children are the sub-rule matches in source order.
	Children []*Node

	source string
}

// NewNode creates a node for rule covering source[start:end].
func NewNode(rule Rule, source string, start, end int, children ...*Node) *Node {
	return &Node{
		Rule:     rule,
		Start:    start,
		End:      end,
		Children: children,
		source:   source,
	}
}

// Text returns the matched source text.
func (n *Node) Text() string {
	return n.source[n.Start:n.End]
}

// Child returns the first direct child produced by rule, or nil.
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// Flatten returns every descendant of n in pre-order, excluding n itself.
func (n *Node) Flatten() []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(node *Node) {
		for _, c := range node.Children {
			out = append(out, c)
			visit(c)
		}
	}
	visit(n)
	return out
}

func (n *Node) add(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}
