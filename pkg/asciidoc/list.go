package asciidoc

import (
	"context"
	"strings"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

// list unwraps the bullet or numbered list inside a list node.
func (t *transformer) list(ctx context.Context, n *cst.Node) (*ast.Node, error) {
	base := t.base(n)

	for _, child := range n.Children {
		if child.Rule != cst.BulletList && child.Rule != cst.NumberedList {
			break
		}
		node, err := t.dispatch(ctx, child)
		if err != nil {
			return nil, err
		}
		if node != nil {
			base = node
		}
	}

	return base, nil
}

func (t *transformer) listOf(ctx context.Context, n *cst.Node, typ ast.ListType) (*ast.Node, error) {
	base := t.node(ast.List{Type: typ}, n)

	for _, child := range n.Children {
		node, err := t.dispatch(ctx, child)
		if err != nil {
			return nil, err
		}
		base.AppendChild(node)
	}

	return base, nil
}

// listItem builds one list item. Its children are the item text, attached
// blocks and nested lists. Unknown parts are kept as error nodes.
func (t *transformer) listItem(ctx context.Context, n *cst.Node) (*ast.Node, error) {
	base := t.base(n)

	for _, child := range n.Children {
		switch child.Rule {
		case cst.Bullet, cst.NumberBullet:
			base.Element = ast.ListItem{MarkerLength: len(strings.TrimSpace(child.Text()))}
		case cst.ListElement:
			for _, part := range child.Children {
				node, err := t.dispatch(ctx, part)
				if err != nil {
					return nil, err
				}
				base.AppendChild(node)
			}
		default:
			base.AppendChild(t.base(child))
		}
	}

	return base, nil
}
