package stream

import "github.com/meditalk/meditalk/internal/database"

// CommentNode is a comment together with its replies.
type CommentNode struct {
	database.Comment
	Children []*CommentNode
}

// BuildCommentTree nests a flat comment list by parent id, keeping input order among siblings.
// Comments whose parent is missing are treated as top level.
func BuildCommentTree(comments []database.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentNode{Comment: c}
	}

	var roots []*CommentNode
	for _, c := range comments {
		node := nodes[c.ID]
		parent, ok := nodes[c.ParentID]
		if c.ParentID == 0 || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
