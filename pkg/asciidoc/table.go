package asciidoc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

// table parses the table body with the table grammar and adds one child per
// row. Column formats come from the "cols" attribute.
func (t *transformer) table(ctx context.Context, n *cst.Node, base *ast.Node) error {
	inner := n.Child(cst.DelimitedInner)
	if inner == nil {
		return nil
	}

	cols, _ := base.Attribute("cols")
	formats := ParseRowFormat(cols)

	err := t.nested(func() error {
		tree, err := cst.ParseRange(cst.TableInner, t.src, inner.Start, inner.End)
		if err != nil {
			return err
		}

		for _, body := range tree {
			for _, row := range body.Children {
				if row.Rule != cst.TableRow {
					continue
				}
				node, err := t.tableRow(ctx, row, formats)
				if err != nil {
					return err
				}
				base.AppendChild(node)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("table at %d:%d: %w", base.Span.StartLine, base.Span.StartColumn, err)
	}

	base.AddAttribute("content", t.ref(inner))

	return nil
}

// tableRow builds a row. Cells take the column formats in turn, starting
// over when the row has more cells than formats.
func (t *transformer) tableRow(ctx context.Context, n *cst.Node, formats []CellFormat) (*ast.Node, error) {
	base := t.node(ast.TableRow{}, n)
	if len(formats) == 0 {
		formats = []CellFormat{defaultCellFormat}
	}

	for i, cell := range n.Children {
		node, err := t.tableCell(ctx, cell, formats[i%len(formats)])
		if err != nil {
			return nil, err
		}
		base.AppendChild(node)
	}

	return base, nil
}

// tableCell builds a cell spanning its trimmed content. An empty cell spans
// the empty range after its separator.
func (t *transformer) tableCell(ctx context.Context, n *cst.Node, format CellFormat) (*ast.Node, error) {
	start := min(n.Start+1, n.End)
	end := start

	if content := n.Child(cst.TableCellContent); content != nil {
		text := t.src[content.Start:content.End]
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			start = content.Start + strings.Index(text, trimmed)
			end = start + len(trimmed)
		}
	}

	base := t.nodeAt(ast.TableCell{}, start, end)
	base.AddAttribute("format", ast.Owned(format.Kind.String()))
	base.AddAttribute("colwidth", ast.Owned(strconv.Itoa(format.Length)))

	if format.Kind == CellAsciidoc && !base.Span.IsEmpty() {
		children, err := t.subdocument(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("table cell at %d:%d: %w", base.Span.StartLine, base.Span.StartColumn, err)
		}
		base.Children = append(base.Children, children...)
	}

	return base, nil
}
