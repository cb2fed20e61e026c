package reddit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadThreadFixture(t *testing.T) *Thread {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "thread.json"))
	require.NoError(t, err)

	thread, err := DecodeThread(raw)
	require.NoError(t, err)
	return thread
}

func TestDecodeThreadPost(t *testing.T) {
	thread := loadThreadFixture(t)

	assert.Equal(t, "Go 1.25 released", thread.Post.Title)
	assert.Equal(t, "gopher", thread.Post.Author)
	assert.Equal(t, "r/golang", thread.Post.Subreddit)
	assert.Equal(t, 12345, thread.Post.Upvotes)
	assert.True(t, thread.Post.Locked)
	assert.Equal(t, 42, thread.Post.NumComments)
	assert.Equal(t, "https://go.dev/blog/go1.25", thread.Post.URL)
	assert.False(t, thread.Post.Created().IsZero())
}

func TestDecodeThreadReplyTree(t *testing.T) {
	thread := loadThreadFixture(t)

	require.Len(t, thread.Replies, 2)

	first := thread.Replies[0]
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, 0, first.Depth)

	// The nested listing decodes into children; the "more" stub does not.
	require.Len(t, first.Children, 1)
	child := first.Children[0]
	assert.Equal(t, "bob", child.Author)
	assert.Equal(t, first.Depth+1, child.Depth)
	assert.Empty(t, child.Children, `replies "" means no children`)

	second := thread.Replies[1]
	assert.Equal(t, "gopher", second.Author)
	assert.Equal(t, 0, second.Depth)
}

func TestDecodeThreadEmptyPayload(t *testing.T) {
	_, err := DecodeThread([]byte(`[{"kind":"Listing","data":{"children":[]}}]`))
	assert.ErrorIs(t, err, errEmptyPayload)

	_, err = DecodeThread([]byte(`[{"kind":"Listing","data":{"children":[]}},{"kind":"Listing","data":{"children":[]}}]`))
	assert.ErrorIs(t, err, errEmptyPayload)
}

func TestDecodeThreadMalformed(t *testing.T) {
	_, err := DecodeThread([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}
