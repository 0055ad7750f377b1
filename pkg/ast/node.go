// Package ast defines the semantic document tree produced by the AsciiDoc reader.
// Nodes reference the original source through byte spans; textual fields are
// substrings of the source unless they are computed values.
package ast

// ElementKind classifies the element carried by a Node.
type ElementKind uint8

// Element kinds.
const (
	KindText ElementKind = iota
	KindParagraph
	KindTitle
	KindList
	KindListItem
	KindTypedBlock
	KindTable
	KindTableRow
	KindTableCell
	KindStyled
	KindLink
	KindCrossReference
	KindImage
	KindError
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindText:           "text",
	KindParagraph:      "paragraph",
	KindTitle:          "title",
	KindList:           "list",
	KindListItem:       "list_item",
	KindTypedBlock:     "typed_block",
	KindTable:          "table",
	KindTableRow:       "table_row",
	KindTableCell:      "table_cell",
	KindStyled:         "styled",
	KindLink:           "link",
	KindCrossReference: "xref",
	KindImage:          "image",
	KindError:          "error",
}

// String returns the lower-case name of the kind.
func (k ElementKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseElementKind is the inverse of ElementKind.String.
func ParseElementKind(name string) (ElementKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return ElementKind(i), true
		}
	}
	return 0, false
}

// ListType distinguishes bullet and numbered lists.
type ListType uint8

const (
	ListBullet ListType = iota
	ListNumber
)

func (t ListType) String() string {
	if t == ListNumber {
		return "number"
	}
	return "bullet"
}

// BlockType is the kind of a delimited block.
type BlockType uint8

const (
	BlockComment BlockType = iota
	BlockListing
	BlockExample
)

func (t BlockType) String() string {
	switch t {
	case BlockComment:
		return "comment"
	case BlockListing:
		return "listing"
	case BlockExample:
		return "example"
	default:
		return "unknown"
	}
}

// Element is the tagged payload of a Node. The set of implementations is
// closed; switch on the concrete type or on Kind.
type Element interface {
	Kind() ElementKind
	element()
}

type (
	// Text is a run of plain text.
	Text struct{}

	// Paragraph groups inline content.
	Paragraph struct{}

	// Title is a section title.
	Title struct {
		Level int
	}

	// List is a bullet or numbered list.
	List struct {
		Type ListType
	}

	// ListItem is one item of a List. MarkerLength is the trimmed length of
	// the marker text ("**" is 2). It is not a nesting depth; nesting is
	// expressed by the tree.
	ListItem struct {
		MarkerLength int
	}

	// TypedBlock is a delimited comment, listing or example block.
	TypedBlock struct {
		Type BlockType
	}

	Table     struct{}
	TableRow  struct{}
	TableCell struct{}

	// Styled is inline text with a "style" attribute.
	Styled struct{}

	Link           struct{}
	CrossReference struct{}
	Image          struct{}

	// Error stands in for a construct that could not be interpreted.
	Error struct {
		Message string
	}
)

func (Text) Kind() ElementKind           { return KindText }
func (Paragraph) Kind() ElementKind      { return KindParagraph }
func (Title) Kind() ElementKind          { return KindTitle }
func (List) Kind() ElementKind           { return KindList }
func (ListItem) Kind() ElementKind       { return KindListItem }
func (TypedBlock) Kind() ElementKind     { return KindTypedBlock }
func (Table) Kind() ElementKind          { return KindTable }
func (TableRow) Kind() ElementKind       { return KindTableRow }
func (TableCell) Kind() ElementKind      { return KindTableCell }
func (Styled) Kind() ElementKind         { return KindStyled }
func (Link) Kind() ElementKind           { return KindLink }
func (CrossReference) Kind() ElementKind { return KindCrossReference }
func (Image) Kind() ElementKind          { return KindImage }
func (Error) Kind() ElementKind          { return KindError }

func (Text) element()           {}
func (Paragraph) element()      {}
func (Title) element()          {}
func (List) element()           {}
func (ListItem) element()       {}
func (TypedBlock) element()     {}
func (Table) element()          {}
func (TableRow) element()       {}
func (TableCell) element()      {}
func (Styled) element()         {}
func (Link) element()           {}
func (CrossReference) element() {}
func (Image) element()          {}
func (Error) element()          {}

// Node is a single element of the document tree.
type Node struct {
	// Element is the tag and payload of the node.
	Element Element

	// Span locates the node in the source.
	Span Span

	// Content is the source text covered by Span.
	Content string

	// Children are in document order.
	Children []*Node

	// Attributes are named attributes in insertion order. Keys may repeat.
	Attributes Attributes

	// PositionalAttributes are unnamed attribute-list entries in order.
	PositionalAttributes []AttributeValue
}

// Kind returns the kind of the node's element.
func (n *Node) Kind() ElementKind {
	if n == nil || n.Element == nil {
		return KindError
	}
	return n.Element.Kind()
}

// Attribute returns the first attribute value stored under key.
func (n *Node) Attribute(key string) (string, bool) {
	return n.Attributes.Get(key)
}

// AddAttribute appends a named attribute.
func (n *Node) AddAttribute(key string, value AttributeValue) {
	n.Attributes = append(n.Attributes, Attribute{Key: key, Value: value})
}

// AppendChild appends child if it is non-nil.
func (n *Node) AppendChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// Positional returns the positional attribute values as strings.
func (n *Node) Positional() []string {
	values := make([]string, 0, len(n.PositionalAttributes))
	for _, v := range n.PositionalAttributes {
		values = append(values, v.String())
	}
	return values
}

// Document is the root of a parsed file.
type Document struct {
	// Content is the complete source text.
	Content string

	// Elements are the top-level nodes in document order.
	Elements []*Node

	// Attributes are document-level attributes such as "source".
	Attributes Attributes
}
