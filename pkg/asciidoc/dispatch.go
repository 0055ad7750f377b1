package asciidoc

import (
	"context"
	"strings"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

func (t *transformer) dispatchAll(ctx context.Context, nodes []*cst.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	for _, n := range nodes {
		node, err := t.dispatch(ctx, n)
		if err != nil {
			return nil, err
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

// dispatch maps one grammar node onto a tree node. It returns nil for
// nodes that only carry structure.
//
//nolint:cyclop // One case per grammar rule.
func (t *transformer) dispatch(ctx context.Context, n *cst.Node) (*ast.Node, error) {
	switch n.Rule {
	case cst.EOI, cst.Continuation:
		return nil, nil
	case cst.Header:
		return t.header(n), nil
	case cst.Title:
		return t.title(n, t.base(n)), nil
	case cst.TitleBlock:
		return t.titleBlock(n), nil
	case cst.Block:
		return t.block(ctx, n)
	case cst.Paragraph, cst.ListParagraph:
		return t.paragraph(n), nil
	case cst.OtherInline, cst.OtherListInline:
		return t.node(ast.Text{}, n), nil
	case cst.Inline:
		return t.inline(n), nil
	case cst.List:
		return t.list(ctx, n)
	case cst.BulletList:
		return t.listOf(ctx, n, ast.ListBullet)
	case cst.NumberedList:
		return t.listOf(ctx, n, ast.ListNumber)
	case cst.BulletListElement, cst.NumberBulletListElement:
		return t.listItem(ctx, n)
	case cst.DelimitedBlock:
		return t.delimitedBlock(ctx, n)
	case cst.ImageBlock:
		return t.image(ctx, n), nil
	case cst.TableRow:
		return t.tableRow(ctx, n, []CellFormat{defaultCellFormat})
	case cst.TableCell:
		return t.tableCell(ctx, n, defaultCellFormat)
	default:
		return t.base(n), nil
	}
}

// header folds the document title into the header node.
func (t *transformer) header(n *cst.Node) *ast.Node {
	base := t.base(n)
	for _, child := range n.Children {
		if child.Rule != cst.Title {
			break
		}
		base = t.title(child, base)
	}
	return base
}

// titleBlock folds a title and its anchors.
func (t *transformer) titleBlock(n *cst.Node) *ast.Node {
	base := t.base(n)

loop:
	for _, child := range n.Children {
		switch child.Rule {
		case cst.Title:
			base = t.title(child, base)
		case cst.Anchor:
			t.anchor(child, base)
		default:
			break loop
		}
	}

	return base
}

// block returns the node of the wrapped content with the leading metadata
// lines folded into its attributes.
func (t *transformer) block(ctx context.Context, n *cst.Node) (*ast.Node, error) {
	meta := t.base(n)

	var content *ast.Node
	for _, child := range n.Children {
		if t.metadata(child, meta) {
			continue
		}

		node, err := t.dispatch(ctx, child)
		if err != nil {
			return nil, err
		}
		if node != nil {
			content = node
			break
		}
	}

	if content == nil {
		return meta, nil
	}

	content.Attributes = append(meta.Attributes, content.Attributes...)
	content.PositionalAttributes = append(meta.PositionalAttributes, content.PositionalAttributes...)
	content.Children = append(meta.Children, content.Children...)

	return content, nil
}

// metadata folds an anchor, attribute list or block title into base and
// reports whether n was one.
func (t *transformer) metadata(n *cst.Node, base *ast.Node) bool {
	switch n.Rule {
	case cst.Anchor:
		t.anchor(n, base)
	case cst.AttributeList:
		t.attributeList(n, base)
	case cst.BlockTitle:
		t.blockTitle(n, base)
	default:
		return false
	}
	return true
}

func (t *transformer) anchor(n *cst.Node, base *ast.Node) {
	for _, child := range n.Children {
		if child.Rule == cst.InlineAnchor {
			t.inlineAnchor(child, base)
		}
	}
}

func (t *transformer) inlineAnchor(n *cst.Node, base *ast.Node) {
	for _, child := range n.Children {
		if child.Rule == cst.Identifier {
			base.AddAttribute("anchor", t.ref(child))
		}
	}
}

func (t *transformer) blockTitle(n *cst.Node, base *ast.Node) {
	for _, child := range n.Children {
		if child.Rule == cst.Line {
			base.AddAttribute("title", t.ref(child))
		}
	}
}

func (t *transformer) paragraph(n *cst.Node) *ast.Node {
	base := t.node(ast.Paragraph{}, n)
	for _, child := range n.Children {
		switch child.Rule {
		case cst.OtherInline, cst.OtherListInline:
			base.AppendChild(t.node(ast.Text{}, child))
		case cst.Inline:
			base.AppendChild(t.inline(child))
		default:
			base.AppendChild(t.base(child))
		}
	}
	return base
}

// concat joins the text of the direct children of n produced by rule.
func concat(n *cst.Node, rule cst.Rule, sep string) (string, bool) {
	var parts []string
	for _, child := range n.Children {
		if child.Rule == rule {
			parts = append(parts, child.Text())
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, sep), true
}
