package jsast

import "slices"

// Parsed reports whether the node came from source text and still has
// a usable position.
func (targetNode *Node) Parsed() bool {
	return targetNode != nil && targetNode.Orig != nil && targetNode.Pos != nil
}

// Changed reports whether the node's own token or child list differs
// from the parse-time snapshot. Edits inside children do not count.
// Synthesized nodes are always changed.
func (targetNode *Node) Changed() bool {
	if !targetNode.Parsed() {
		return true
	}

	if targetNode.Token != targetNode.Orig.Token {
		return true
	}

	return !slices.Equal(targetNode.Children, targetNode.Orig.Children)
}

// CommentsChanged reports whether the leading comments differ from the
// parse-time snapshot.
func (targetNode *Node) CommentsChanged() bool {
	if !targetNode.Parsed() {
		return len(targetNode.Comments) > 0
	}

	return !slices.Equal(targetNode.Comments, targetNode.Orig.Comments)
}

// Pristine reports whether the node and every descendant are exactly as
// parsed, so the original text can be reused verbatim. The memo map may
// be nil.
func (targetNode *Node) Pristine(memo map[*Node]bool) bool {
	if targetNode == nil {
		return true
	}

	if memo != nil {
		if cached, ok := memo[targetNode]; ok {
			return cached
		}
	}

	result := !targetNode.Changed()

	if result {
		for _, child := range targetNode.Children {
			if child == nil {
				continue
			}

			if child.CommentsChanged() || !child.Pristine(memo) {
				result = false

				break
			}
		}
	}

	if memo != nil {
		memo[targetNode] = result
	}

	return result
}

// LeadStart returns the offset where the node's leading comments begin in
// its original source.
func (targetNode *Node) LeadStart() uint {
	if !targetNode.Parsed() {
		return 0
	}

	if targetNode.Orig.LeadStart < targetNode.Pos.StartOffset {
		return targetNode.Orig.LeadStart
	}

	return targetNode.Pos.StartOffset
}

// Detach clears the parse-time snapshot of the node and its descendants,
// forcing them to be printed from structure.
func (targetNode *Node) Detach() {
	targetNode.VisitPreOrder(func(visited *Node) {
		visited.Orig = nil
	})
}
