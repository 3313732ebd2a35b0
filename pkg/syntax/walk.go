package syntax

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n Node) error

// Walk performs a pre-order traversal starting at root. If walkFunc returns
// a non-nil error, the walk stops immediately and returns that error.
func Walk(root Node, walkFunc WalkFunc) error {
	if !root.Valid() {
		return nil
	}
	if err := walkFunc(root); err != nil {
		return err
	}
	for i := range root.Len() {
		if err := Walk(root.Child(i), walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// WalkPost performs a post-order traversal: children before their parent.
func WalkPost(root Node, walkFunc WalkFunc) error {
	if !root.Valid() {
		return nil
	}
	for i := range root.Len() {
		if err := WalkPost(root.Child(i), walkFunc); err != nil {
			return err
		}
	}
	return walkFunc(root)
}

// FindAll returns all nodes matching the predicate, in pre-order.
func FindAll(root Node, predicate func(n Node) bool) []Node {
	var result []Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n Node) error {
		if predicate(n) {
			result = append(result, n)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or an invalid
// node if none is found.
func FindFirst(root Node, predicate func(n Node) bool) Node {
	var found Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(n Node) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root Node, kind Kind) []Node {
	return FindAll(root, func(n Node) bool {
		return n.Kind() == kind
	})
}

// Leaves returns the leaves below root in source order.
func Leaves(root Node) []Node {
	return FindAll(root, Node.IsLeaf)
}

// HasError reports whether an error node occurs anywhere below root.
func HasError(root Node) bool {
	return FindFirst(root, func(n Node) bool { return n.Kind() == Error }).Valid()
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
