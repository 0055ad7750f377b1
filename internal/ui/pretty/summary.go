package pretty

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/adocast/pkg/ast"
)

// Stats counts the nodes of a document.
type Stats struct {
	// Nodes is the total number of nodes at every depth.
	Nodes int

	// ByKind counts nodes per element kind.
	ByKind map[ast.ElementKind]int

	// Depth is the deepest nesting level; top-level elements are depth 1.
	Depth int
}

// Errors returns the number of Error nodes.
func (s Stats) Errors() int {
	return s.ByKind[ast.KindError]
}

// CollectStats walks doc and counts its nodes.
func CollectStats(doc *ast.Document) Stats {
	stats := Stats{ByKind: make(map[ast.ElementKind]int)}
	if doc == nil {
		return stats
	}

	var visit func(node *ast.Node, depth int)
	visit = func(node *ast.Node, depth int) {
		stats.Nodes++
		stats.ByKind[node.Kind()]++
		stats.Depth = max(stats.Depth, depth)
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}

	for _, node := range doc.Elements {
		visit(node, 1)
	}

	return stats
}

// FormatSummaryOneLine formats document statistics as a single line.
// Example: "14 nodes (3 paragraph, 2 title, ...), depth 3, no errors".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	kinds := make([]ast.ElementKind, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if stats.ByKind[kinds[i]] != stats.ByKind[kinds[j]] {
			return stats.ByKind[kinds[i]] > stats.ByKind[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", stats.ByKind[kind], kind))
	}

	nodeWord := "nodes"
	if stats.Nodes == 1 {
		nodeWord = "node"
	}

	line := s.SummaryTitle.Render(fmt.Sprintf("%d %s", stats.Nodes, nodeWord))
	if len(parts) > 0 {
		line += s.Dim.Render(" (" + strings.Join(parts, ", ") + ")")
	}
	line += fmt.Sprintf(", depth %d, ", stats.Depth)

	switch errs := stats.Errors(); errs {
	case 0:
		line += s.Success.Render("no errors")
	case 1:
		line += s.Failure.Render("1 error")
	default:
		line += s.Failure.Render(fmt.Sprintf("%d errors", errs))
	}

	return line + "\n"
}
