package asciidoc

import (
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

// inline builds a link, cross reference or styled span.
func (t *transformer) inline(n *cst.Node) *ast.Node {
	base := t.base(n)

	for _, child := range n.Children {
		switch child.Rule {
		case cst.Link:
			t.link(child, base)
		case cst.Xref:
			t.xref(child, base)
		case cst.Monospaced:
			t.styled(child, base, "monospaced")
			for _, part := range child.Children {
				if part.Rule == cst.InlineAnchor {
					t.inlineAnchor(part, base)
				}
			}
		case cst.Strong:
			t.styled(child, base, "strong")
		case cst.Emphasized:
			t.styled(child, base, "em")
		}
	}

	return base
}

// link records "url" and "protocol"; the link text becomes a text child.
func (t *transformer) link(n *cst.Node, base *ast.Node) {
	base.Element = ast.Link{}

	for _, child := range n.Children {
		switch child.Rule {
		case cst.URL:
			base.AddAttribute("url", t.ref(child))
			if protocol := child.Child(cst.Protocol); protocol != nil {
				base.AddAttribute("protocol", t.ref(protocol))
			}
		case cst.InlineAttributeList:
			t.inlineAttributeList(child, base)
		case cst.LinkText:
			base.AppendChild(t.node(ast.Text{}, child))
		default:
			base.AppendChild(t.base(child))
		}
	}
}

// xref records the target "id" and the link words as "content".
func (t *transformer) xref(n *cst.Node, base *ast.Node) {
	base.Element = ast.CrossReference{}

	for _, child := range n.Children {
		if child.Rule == cst.Identifier {
			base.AddAttribute("id", t.ref(child))
		}
	}

	if content, ok := concat(n, cst.Word, " "); ok {
		base.AddAttribute("content", ast.Owned(content))
	}
}

func (t *transformer) styled(n *cst.Node, base *ast.Node, style string) {
	base.Element = ast.Styled{}
	base.AddAttribute("style", ast.Owned(style))

	if content, ok := concat(n, cst.LineChar, ""); ok {
		base.AddAttribute("content", ast.Owned(content))
	}
}
