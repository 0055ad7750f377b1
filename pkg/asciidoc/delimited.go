package asciidoc

import (
	"context"
	"fmt"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
	"github.com/yaklabco/adocast/pkg/langdetect"
)

// delimitedBlock builds a comment, listing, example or table block. Leading
// metadata is folded in first.
func (t *transformer) delimitedBlock(ctx context.Context, n *cst.Node) (*ast.Node, error) {
	base := t.base(n)

loop:
	for _, child := range n.Children {
		if t.metadata(child, base) {
			continue
		}

		var err error
		switch child.Rule {
		case cst.DelimitedTable:
			base.Element = ast.Table{}
			err = t.table(ctx, child, base)
		case cst.DelimitedComment:
			base.Element = ast.TypedBlock{Type: ast.BlockComment}
			err = t.delimitedInner(ctx, child, base)
		case cst.DelimitedSource, cst.DelimitedLiteral:
			base.Element = ast.TypedBlock{Type: ast.BlockListing}
			err = t.delimitedInner(ctx, child, base)
			t.language(base)
		case cst.DelimitedExample:
			base.Element = ast.TypedBlock{Type: ast.BlockExample}
			err = t.delimitedInner(ctx, child, base)
		default:
			break loop
		}
		if err != nil {
			return nil, err
		}
	}

	return base, nil
}

// delimitedInner stores the raw block body as "content". Example bodies
// are also parsed as a nested document.
func (t *transformer) delimitedInner(ctx context.Context, n *cst.Node, base *ast.Node) error {
	inner := n.Child(cst.DelimitedInner)
	if inner == nil {
		return nil
	}

	if typed, ok := base.Element.(ast.TypedBlock); ok && typed.Type == ast.BlockExample {
		children, err := t.subdocument(ctx, inner.Start, inner.End)
		if err != nil {
			return fmt.Errorf("example block at %d:%d: %w", base.Span.StartLine, base.Span.StartColumn, err)
		}
		base.Children = append(base.Children, children...)
	}

	base.AddAttribute("content", t.ref(inner))

	return nil
}

// language records the language of a listing block: the second positional
// attribute of a [source, lang] block, otherwise a guess when enabled.
func (t *transformer) language(base *ast.Node) {
	if _, ok := base.Attribute("language"); ok {
		return
	}

	positional := base.PositionalAttributes
	if len(positional) >= 2 && positional[0].String() == "source" {
		base.AddAttribute("language", positional[1])
		return
	}

	if !t.opts.DetectLanguage {
		return
	}
	content, ok := base.Attribute("content")
	if !ok {
		return
	}
	if lang, ok := langdetect.Detect(content); ok {
		base.AddAttribute("language", ast.Owned(lang))
	}
}
