package replies

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmark/pkg/models"
)

func node(id, author, body string, depth int, children ...*models.ReplyNode) *models.ReplyNode {
	return &models.ReplyNode{ID: id, Author: author, Body: body, Depth: depth, Children: children}
}

func tree() []*models.ReplyNode {
	return []*models.ReplyNode{
		node("a", "alice", "top one", 0,
			node("a1", "bob", "child", 1,
				node("a1a", "carol", "grandchild", 2)),
			node("a2", "dave", "second child", 1)),
		node("b", "erin", "top two", 0),
	}
}

func ids(flat []models.FlatReply) []string {
	out := make([]string, 0, len(flat))
	for _, entry := range flat {
		out = append(out, entry.Node.ID)
	}
	return out
}

func TestFlattenPreOrder(t *testing.T) {
	flat, count := Flatten(tree(), Options{MaxDepth: -1})

	want := []string{"a", "a1", "a1a", "a2", "b"}
	if diff := cmp.Diff(want, ids(flat)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(want), count)
}

func TestFlattenDepthInvariant(t *testing.T) {
	flat, _ := Flatten(tree(), Options{MaxDepth: -1})

	byID := make(map[string]models.FlatReply)
	for _, entry := range flat {
		assert.Equal(t, entry.Node.Depth, entry.Depth, "flattened depth must equal tree depth")
		byID[entry.Node.ID] = entry
	}

	assert.Equal(t, 0, byID["a"].Depth)
	assert.Equal(t, 0, byID["b"].Depth)
	assert.Equal(t, byID["a"].Depth+1, byID["a1"].Depth)
	assert.Equal(t, byID["a1"].Depth+1, byID["a1a"].Depth)
}

func TestFlattenMaxDepth(t *testing.T) {
	flat, count := Flatten(tree(), Options{MaxDepth: 0})
	assert.Equal(t, []string{"a", "b"}, ids(flat))
	assert.Equal(t, 2, count)

	flat, _ = Flatten(tree(), Options{MaxDepth: 1})
	assert.Equal(t, []string{"a", "a1", "a2"}, ids(flat))
	for _, entry := range flat {
		assert.LessOrEqual(t, entry.Depth, 1)
	}

	// -1 is unlimited.
	flat, _ = Flatten(tree(), Options{MaxDepth: -1})
	assert.Len(t, flat, 5)
}

func TestFlattenDeepNodeDoesNotAbortSiblings(t *testing.T) {
	// A too-deep subtree is skipped, but its parent's later siblings are
	// still visited.
	top := []*models.ReplyNode{
		node("a", "alice", "top", 0,
			node("a1", "bob", "deep", 1)),
		node("b", "erin", "sibling after deep branch", 0),
	}
	flat, _ := Flatten(top, Options{MaxDepth: 0})
	assert.Equal(t, []string{"a", "b"}, ids(flat))
}

func TestFlattenSkipsEmptyBodySubtree(t *testing.T) {
	top := []*models.ReplyNode{
		node("a", "alice", "  ", 0,
			node("a1", "bob", "visible child of hidden parent", 1)),
		node("b", "erin", "kept", 0),
	}

	flat, count := Flatten(top, Options{MaxDepth: -1})
	require.Equal(t, 1, count)
	assert.Equal(t, []string{"b"}, ids(flat))
}

func TestFlattenAutoModExclusion(t *testing.T) {
	top := []*models.ReplyNode{
		node("m", AutoModeratorName, "sticky notice", 0,
			node("m1", "alice", "reply to automod", 1)),
		node("b", "erin", "kept", 0),
	}

	flat, _ := Flatten(top, Options{MaxDepth: -1, ShowAutoMod: false})
	assert.Equal(t, []string{"b"}, ids(flat), "automod subtree is removed entirely")

	flat, _ = Flatten(top, Options{MaxDepth: -1, ShowAutoMod: true})
	assert.Equal(t, []string{"m", "m1", "b"}, ids(flat))
}
