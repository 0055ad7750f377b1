package asciidoc

import (
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

func (t *transformer) attributeList(n *cst.Node, base *ast.Node) {
	for _, child := range n.Children {
		if child.Rule == cst.InlineAttributeList {
			t.inlineAttributeList(child, base)
		}
	}
}

// inlineAttributeList adds bare values to the positional attributes of base
// and name=value pairs to its attributes. A pair without a name or a value
// is reported as an error child.
func (t *transformer) inlineAttributeList(n *cst.Node, base *ast.Node) {
	for _, attr := range n.Children {
		if attr.Rule != cst.Attribute {
			continue
		}

		for _, child := range attr.Children {
			switch child.Rule {
			case cst.AttributeValue:
				base.PositionalAttributes = append(base.PositionalAttributes, t.ref(child))
			case cst.NamedAttribute:
				t.namedAttribute(child, base)
			}
		}
	}
}

func (t *transformer) namedAttribute(n *cst.Node, base *ast.Node) {
	var key, value *cst.Node
	for _, child := range n.Children {
		switch child.Rule {
		case cst.Identifier:
			key = child
		case cst.AttributeValue:
			value = child
		}
	}

	if key == nil || value == nil {
		base.AppendChild(t.node(ast.Error{Message: "Malformed named attribute"}, n))
		return
	}

	var text string
	for _, part := range value.Children {
		text += part.Text()
	}
	base.AddAttribute(key.Text(), ast.Owned(text))
}
