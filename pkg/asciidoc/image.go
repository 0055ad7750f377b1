package asciidoc

import (
	"context"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

// image builds an image node. With opts=inline the image file is read
// through the environment into a "content" attribute. Read failures are
// logged and leave the node without content.
func (t *transformer) image(ctx context.Context, n *cst.Node) *ast.Node {
	base := t.base(n)
	base.Element = ast.Image{}

	for _, child := range n.Flatten() {
		switch child.Rule {
		case cst.URL, cst.Path:
			base.AddAttribute("path", t.ref(child))
		case cst.InlineAttributeList:
			t.inlineAttributeList(child, base)
		}
	}

	if opts, _ := base.Attribute("opts"); opts == "inline" {
		t.inlineImage(ctx, base)
	}

	return base
}

func (t *transformer) inlineImage(ctx context.Context, base *ast.Node) {
	logger := logging.FromContext(ctx)

	path, ok := base.Attribute("path")
	if !ok {
		logger.Error("inline image has no path", logging.FieldLine, base.Span.StartLine)
		return
	}
	if t.env == nil {
		logger.Error("cannot inline image without an environment", logging.FieldPath, path)
		return
	}

	content, err := t.env.ReadToString(ctx, path)
	if err != nil {
		logger.Error("cannot read content of image file",
			logging.FieldPath, path,
			logging.FieldError, err,
		)
		return
	}

	base.AddAttribute("content", ast.Owned(content))
}
