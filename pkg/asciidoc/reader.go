// Package asciidoc builds the semantic document tree from the concrete
// syntax tree of an AsciiDoc document.
//
// The reader walks the grammar output depth-first and maps every grammar
// node onto at most one ast.Node. Constructs it cannot interpret become
// ast.Error nodes so that the rest of the document still renders. Syntax
// errors, including errors in nested example blocks and tables, abort the
// parse.
package asciidoc

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
	"github.com/yaklabco/adocast/pkg/environment"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 32

// ErrMaxDepth is returned when nested blocks exceed Options.MaxDepth.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// Options configures a parse.
type Options struct {
	// Input is the path of the document, recorded as the "source"
	// attribute of the returned Document. Empty for stdin.
	Input string

	// MaxDepth limits how deep example blocks, tables and asciidoc table
	// cells may nest. Zero means DefaultMaxDepth.
	MaxDepth int

	// DetectLanguage guesses the language of listing blocks that do not
	// declare one.
	DetectLanguage bool
}

// Reader parses AsciiDoc documents.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Parse runs the grammar over input and builds the document tree. env is
// used to inline images and may be nil.
func (r *Reader) Parse(ctx context.Context, input string, opts Options, env environment.Env) (*ast.Document, error) {
	nodes, err := cst.Parse(cst.Asciidoc, input)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return r.Transform(ctx, input, nodes, opts, env)
}

// Transform builds the document tree for grammar nodes parsed from input.
func (r *Reader) Transform(
	ctx context.Context,
	input string,
	nodes []*cst.Node,
	opts Options,
	env environment.Env,
) (*ast.Document, error) {
	t := newTransformer(input, opts, env)

	elements, err := t.dispatchAll(ctx, nodes)
	if err != nil {
		return nil, err
	}

	doc := &ast.Document{
		Content:  input,
		Elements: elements,
	}
	if opts.Input != "" {
		doc.Attributes = append(doc.Attributes, ast.Attribute{Key: "source", Value: ast.Owned(opts.Input)})
	}

	logging.FromContext(ctx).Debug("document parsed",
		logging.FieldInput, opts.Input,
		logging.FieldElements, len(elements),
	)

	return doc, nil
}

// transformer holds the state of one parse.
type transformer struct {
	src      string
	lines    *ast.LineIndex
	env      environment.Env
	opts     Options
	maxDepth int
	depth    int
}

func newTransformer(src string, opts Options, env environment.Env) *transformer {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &transformer{
		src:      src,
		lines:    ast.NewLineIndex(src),
		env:      env,
		opts:     opts,
		maxDepth: maxDepth,
	}
}

func (t *transformer) span(start, end int) ast.Span {
	return t.lines.Span(start, end)
}

// node creates a tree node covering the grammar node n.
func (t *transformer) node(element ast.Element, n *cst.Node) *ast.Node {
	return t.nodeAt(element, n.Start, n.End)
}

func (t *transformer) nodeAt(element ast.Element, start, end int) *ast.Node {
	return &ast.Node{
		Element: element,
		Span:    t.span(start, end),
		Content: t.src[start:end],
	}
}

// base creates the placeholder node for n. Builders replace its element;
// if none does, it reports n as not implemented.
func (t *transformer) base(n *cst.Node) *ast.Node {
	return t.node(ast.Error{Message: "Not implemented: " + n.Rule.String()}, n)
}

// ref returns the text of n as a value borrowed from the source.
func (t *transformer) ref(n *cst.Node) ast.AttributeValue {
	return ast.Ref(t.src[n.Start:n.End], t.span(n.Start, n.End))
}

// nested runs fn one nesting level deeper.
func (t *transformer) nested(fn func() error) error {
	if t.depth >= t.maxDepth {
		return fmt.Errorf("%w (limit %d)", ErrMaxDepth, t.maxDepth)
	}

	t.depth++
	defer func() { t.depth-- }()

	return fn()
}

// subdocument parses source[start:end] as a document of its own and
// returns its top-level nodes.
func (t *transformer) subdocument(ctx context.Context, start, end int) ([]*ast.Node, error) {
	var nodes []*ast.Node

	err := t.nested(func() error {
		logging.FromContext(ctx).Debug("parsing nested document",
			logging.FieldOffset, start,
			logging.FieldDepth, t.depth,
		)

		tree, err := cst.ParseRange(cst.Asciidoc, t.src, start, end)
		if err != nil {
			return err
		}
		nodes, err = t.dispatchAll(ctx, tree)
		return err
	})

	return nodes, err
}
