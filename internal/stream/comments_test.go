package stream

import (
	"testing"

	"github.com/meditalk/meditalk/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id, parent uint, content string) database.Comment {
	c := database.Comment{ParentID: parent, Content: content}
	c.ID = id
	return c
}

func TestBuildCommentTree(t *testing.T) {
	tree := BuildCommentTree([]database.Comment{
		comment(1, 0, "first"),
		comment(2, 1, "reply to first"),
		comment(3, 0, "second"),
		comment(4, 2, "nested reply"),
		comment(5, 1, "another reply"),
		comment(6, 99, "orphan"),
	})

	require.Len(t, tree, 3)
	assert.Equal(t, "first", tree[0].Content)
	assert.Equal(t, "second", tree[1].Content)
	assert.Equal(t, "orphan", tree[2].Content)

	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "reply to first", tree[0].Children[0].Content)
	assert.Equal(t, "another reply", tree[0].Children[1].Content)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "nested reply", tree[0].Children[0].Children[0].Content)
}

func TestBuildCommentTree_Empty(t *testing.T) {
	assert.Empty(t, BuildCommentTree(nil))
}
