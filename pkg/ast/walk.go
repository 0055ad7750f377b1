package ast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal starting at root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkDocument walks every top-level element of doc in order.
func WalkDocument(doc *Document, walkFunc WalkFunc) error {
	if doc == nil {
		return nil
	}
	for _, elem := range doc.Elements {
		if err := Walk(elem, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns all nodes of doc matching the predicate, in pre-order.
func FindAll(doc *Document, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // the callback never fails
	WalkDocument(doc, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindByKind returns all nodes of doc with the given kind.
func FindByKind(doc *Document, kind ElementKind) []*Node {
	return FindAll(doc, func(n *Node) bool {
		return n.Kind() == kind
	})
}
