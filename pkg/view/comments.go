package view

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// CommentView edits the leading comments of a statement or property.
type CommentView struct {
	node *jsast.Node
}

// CommentsOf returns the comment view for any node.
func CommentsOf(targetNode *jsast.Node) *CommentView {
	return &CommentView{node: targetNode}
}

// Kind returns KindComment.
func (comments *CommentView) Kind() Kind { return KindComment }

// Node returns the node the comments are attached to.
func (comments *CommentView) Node() *jsast.Node { return comments.node }

// Lines returns the comment texts without delimiters.
func (comments *CommentView) Lines() []string {
	lines := make([]string, 0, len(comments.node.Comments))
	for _, comment := range comments.node.Comments {
		lines = append(lines, comment.Text)
	}

	return lines
}

// Text returns all comments joined by newlines.
func (comments *CommentView) Text() string {
	return strings.Join(comments.Lines(), "\n")
}

// Set replaces the comments with one line comment per line of text. An
// empty text removes them.
func (comments *CommentView) Set(text string) {
	if text == "" {
		comments.node.Comments = nil

		return
	}

	var updated []jsast.Comment
	for line := range strings.SplitSeq(text, "\n") {
		updated = append(updated, jsast.Comment{Text: strings.TrimSpace(line)})
	}

	comments.node.Comments = updated
}

// SetBlock replaces the comments with a single block comment.
func (comments *CommentView) SetBlock(text string) {
	comments.node.Comments = []jsast.Comment{{Text: text, Block: true}}
}

// Append adds a line comment after the existing ones.
func (comments *CommentView) Append(text string) {
	comments.node.Comments = append(slices.Clone(comments.node.Comments), jsast.Comment{Text: text})
}

// Clear removes all comments.
func (comments *CommentView) Clear() {
	comments.node.Comments = nil
}
