package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUpvotes(t *testing.T) {
	assert.Equal(t, "⬆️ 999", FormatUpvotes(999, true))
	assert.Equal(t, "⬆️ 1k", FormatUpvotes(1000, true))
	assert.Equal(t, "⬆️ 12k", FormatUpvotes(12345, true), "thousands truncate, never round")
	assert.Equal(t, "⬆️ 0", FormatUpvotes(0, true))
	assert.Equal(t, "", FormatUpvotes(500, false))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "_( 2023-11-14 22:13:20 )_", FormatTimestamp("2023-11-14 22:13:20", true))
	assert.Equal(t, "", FormatTimestamp("2023-11-14 22:13:20", false))
	assert.Equal(t, "", FormatTimestamp("", true))
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "2023-11-14 22:13:20", Timestamp(1700000000))
	assert.Equal(t, "", Timestamp(0))
}

func TestAuthorLink(t *testing.T) {
	assert.Equal(t, "[alice](https://www.reddit.com/user/alice)", AuthorLink("alice"))
	assert.Equal(t, "[deleted]", AuthorLink("[deleted]"), "removed accounts render verbatim, no link")
	assert.Equal(t, "", AuthorLink(""))
}

func TestAuthorWithOPMarker(t *testing.T) {
	assert.Equal(t, "[alice](https://www.reddit.com/user/alice) (OP)", AuthorWithOPMarker("alice", "alice"))
	assert.Equal(t, "[bob](https://www.reddit.com/user/bob)", AuthorWithOPMarker("bob", "alice"))
}

func TestEscapeSelfText(t *testing.T) {
	assert.Equal(t, `& < > "`, EscapeSelfText("&amp; &lt; &gt; &quot;"))
}

func TestLinkifyMentions(t *testing.T) {
	assert.Equal(t,
		"thanks [u/alice](https://www.reddit.com/user/alice)!",
		LinkifyMentions("thanks u/alice!"))
}
