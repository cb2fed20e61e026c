package reddit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanURL(t *testing.T) {
	withUTM := "https://www.reddit.com/r/golang/comments/abc123/test_post/?utm_source=share&utm_medium=web"
	withoutUTM := "https://www.reddit.com/r/golang/comments/abc123/test_post/"

	assert.Equal(t, withoutUTM, CleanURL(withUTM))
	assert.Equal(t, withoutUTM, CleanURL(withoutUTM))
	assert.Equal(t, withoutUTM, CleanURL("  "+withUTM+"  "))
	assert.Equal(t, "", CleanURL("   "))
}

func TestCleanURLEqualForNaming(t *testing.T) {
	// Links differing only by tracking suffix must compare equal for
	// file-naming purposes.
	a := CleanURL("https://www.reddit.com/r/golang/comments/abc123/test_post?utm_source=share")
	b := CleanURL("https://www.reddit.com/r/golang/comments/abc123/test_post")
	assert.Equal(t, a, b)
	assert.Equal(t, BaseName(a), BaseName(b))
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://www.reddit.com/r/rust/comments/abc123/test_post/"))
	assert.True(t, ValidURL("https://www.reddit.com/r/programming/comments/xyz789/another_test"))

	assert.False(t, ValidURL("https://example.com"))
	assert.False(t, ValidURL("not_a_url"))
	assert.False(t, ValidURL("https://www.reddit.com/r/rust"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "test_post", BaseName("https://www.reddit.com/r/rust/comments/abc123/test_post/"))
	assert.Equal(t, "test_post", BaseName("https://www.reddit.com/r/rust/comments/abc123/test_post"))
}

func TestBaseNameFallback(t *testing.T) {
	name := BaseName("")
	assert.True(t, strings.HasPrefix(name, "reddit_no_name_"), "got %q", name)
}
