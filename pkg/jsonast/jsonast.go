// Package jsonast writes and reads the document tree as JSON.
package jsonast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/adocast/pkg/ast"
)

// Version is the schema version written to every document.
const Version = "1.0.0"

const bufWriterSize = 32 * 1024

// ErrUnknownType is returned when decoding a node of an unknown type.
var ErrUnknownType = errors.New("unknown node type")

// JSONDocument is the top-level JSON structure.
type JSONDocument struct {
	Version    string          `json:"version"`
	Content    string          `json:"content"`
	Attributes []JSONAttribute `json:"attributes,omitempty"`
	Elements   []JSONNode      `json:"elements"`
}

// JSONNode is one tree node. Only the payload field matching Type is set.
type JSONNode struct {
	Type         string `json:"type"`
	Level        int    `json:"level,omitempty"`
	ListType     string `json:"listType,omitempty"`
	MarkerLength int    `json:"markerLength,omitempty"`
	BlockType    string `json:"blockType,omitempty"`
	Message      string `json:"message,omitempty"`

	Span       JSONSpan        `json:"span"`
	Content    string          `json:"content"`
	Attributes []JSONAttribute `json:"attributes,omitempty"`
	Positional []JSONValue     `json:"positional,omitempty"`
	Children   []JSONNode      `json:"children,omitempty"`
}

// JSONSpan locates a node in the source.
type JSONSpan struct {
	Start       int `json:"start"`
	End         int `json:"end"`
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// JSONValue is an attribute value. Span is set for values taken verbatim
// from the source.
type JSONValue struct {
	Value string    `json:"value"`
	Span  *JSONSpan `json:"span,omitempty"`
}

// JSONAttribute is a named attribute.
type JSONAttribute struct {
	Key string `json:"key"`
	JSONValue
}

// Options configures encoding.
type Options struct {
	// Compact disables indentation.
	Compact bool
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *ast.Document, opts Options) (err error) {
	bw := bufio.NewWriterSize(w, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(bw)
	if !opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(FromDocument(doc)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*ast.Document, error) {
	var out JSONDocument
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return ToDocument(&out)
}

// FromDocument converts doc to its JSON form.
func FromDocument(doc *ast.Document) *JSONDocument {
	out := &JSONDocument{
		Version:  Version,
		Elements: make([]JSONNode, 0),
	}
	if doc == nil {
		return out
	}

	out.Content = doc.Content
	out.Attributes = fromAttributes(doc.Attributes)
	for _, n := range doc.Elements {
		out.Elements = append(out.Elements, fromNode(n))
	}

	return out
}

func fromNode(n *ast.Node) JSONNode {
	out := JSONNode{
		Type:       n.Kind().String(),
		Span:       fromSpan(n.Span),
		Content:    n.Content,
		Attributes: fromAttributes(n.Attributes),
	}

	switch e := n.Element.(type) {
	case ast.Title:
		out.Level = e.Level
	case ast.List:
		out.ListType = e.Type.String()
	case ast.ListItem:
		out.MarkerLength = e.MarkerLength
	case ast.TypedBlock:
		out.BlockType = e.Type.String()
	case ast.Error:
		out.Message = e.Message
	}

	for _, v := range n.PositionalAttributes {
		out.Positional = append(out.Positional, fromValue(v))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, fromNode(c))
	}

	return out
}

func fromSpan(s ast.Span) JSONSpan {
	return JSONSpan{
		Start:       s.Start,
		End:         s.End,
		StartLine:   s.StartLine,
		StartColumn: s.StartColumn,
		EndLine:     s.EndLine,
		EndColumn:   s.EndColumn,
	}
}

func fromValue(v ast.AttributeValue) JSONValue {
	out := JSONValue{Value: v.String()}
	if v.IsRef() {
		span := fromSpan(v.Span)
		out.Span = &span
	}
	return out
}

func fromAttributes(attrs ast.Attributes) []JSONAttribute {
	var out []JSONAttribute
	for _, a := range attrs {
		out = append(out, JSONAttribute{Key: a.Key, JSONValue: fromValue(a.Value)})
	}
	return out
}

// ToDocument converts the JSON form back into a document.
func ToDocument(in *JSONDocument) (*ast.Document, error) {
	doc := &ast.Document{
		Content:    in.Content,
		Attributes: toAttributes(in.Attributes),
	}

	for i := range in.Elements {
		n, err := toNode(&in.Elements[i])
		if err != nil {
			return nil, err
		}
		doc.Elements = append(doc.Elements, n)
	}

	return doc, nil
}

func toNode(in *JSONNode) (*ast.Node, error) {
	element, err := toElement(in)
	if err != nil {
		return nil, err
	}

	n := &ast.Node{
		Element:    element,
		Span:       toSpan(in.Span),
		Content:    in.Content,
		Attributes: toAttributes(in.Attributes),
	}
	for _, v := range in.Positional {
		n.PositionalAttributes = append(n.PositionalAttributes, toValue(v))
	}
	for i := range in.Children {
		child, err := toNode(&in.Children[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}

//nolint:cyclop // One case per element kind.
func toElement(in *JSONNode) (ast.Element, error) {
	kind, ok := ast.ParseElementKind(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}

	switch kind {
	case ast.KindText:
		return ast.Text{}, nil
	case ast.KindParagraph:
		return ast.Paragraph{}, nil
	case ast.KindTitle:
		return ast.Title{Level: in.Level}, nil
	case ast.KindList:
		if in.ListType == ast.ListNumber.String() {
			return ast.List{Type: ast.ListNumber}, nil
		}
		return ast.List{Type: ast.ListBullet}, nil
	case ast.KindListItem:
		return ast.ListItem{MarkerLength: in.MarkerLength}, nil
	case ast.KindTypedBlock:
		for _, t := range []ast.BlockType{ast.BlockComment, ast.BlockListing, ast.BlockExample} {
			if t.String() == in.BlockType {
				return ast.TypedBlock{Type: t}, nil
			}
		}
		return nil, fmt.Errorf("%w: block type %q", ErrUnknownType, in.BlockType)
	case ast.KindTable:
		return ast.Table{}, nil
	case ast.KindTableRow:
		return ast.TableRow{}, nil
	case ast.KindTableCell:
		return ast.TableCell{}, nil
	case ast.KindStyled:
		return ast.Styled{}, nil
	case ast.KindLink:
		return ast.Link{}, nil
	case ast.KindCrossReference:
		return ast.CrossReference{}, nil
	case ast.KindImage:
		return ast.Image{}, nil
	case ast.KindError:
		return ast.Error{Message: in.Message}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
}

func toSpan(s JSONSpan) ast.Span {
	return ast.Span{
		Start:       s.Start,
		End:         s.End,
		StartLine:   s.StartLine,
		StartColumn: s.StartColumn,
		EndLine:     s.EndLine,
		EndColumn:   s.EndColumn,
	}
}

func toValue(v JSONValue) ast.AttributeValue {
	if v.Span != nil {
		return ast.Ref(v.Value, toSpan(*v.Span))
	}
	return ast.Owned(v.Value)
}

func toAttributes(in []JSONAttribute) ast.Attributes {
	var out ast.Attributes
	for _, a := range in {
		out = append(out, ast.Attribute{Key: a.Key, Value: toValue(a.JSONValue)})
	}
	return out
}
