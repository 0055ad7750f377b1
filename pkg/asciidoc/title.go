package asciidoc

import (
	"strings"

	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/cst"
)

// setextLevels maps an underline character to its section level.
//
//nolint:gochecknoglobals // Read-only lookup table.
var setextLevels = map[byte]int{
	'=': 1,
	'-': 2,
	'~': 3,
	'^': 4,
}

// title turns base into the title described by n. The title text is stored
// as the "name" attribute.
func (t *transformer) title(n *cst.Node, base *ast.Node) *ast.Node {
loop:
	for _, child := range n.Children {
		switch child.Rule {
		case cst.AtxTitleStyle:
			base.Element = ast.Title{Level: len(strings.TrimSpace(child.Text()))}
		case cst.SetextTitleStyle:
			underline := child.Text()
			level, ok := 0, false
			if underline != "" {
				level, ok = setextLevels[underline[0]]
			}
			if !ok {
				base.Element = ast.Error{Message: "Unsupported title formatting"}
				break loop
			}
			base.Element = ast.Title{Level: level}
		case cst.Line:
			base.AddAttribute("name", t.ref(child))
		default:
			break loop
		}
	}

	return base
}
