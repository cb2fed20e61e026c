package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DeletedMarker is what the platform substitutes for removed authors and
// bodies.
const DeletedMarker = "[deleted]"

const userProfileBase = "https://www.reddit.com/user/"

var mentionRe = regexp.MustCompile(`u/(\w+)`)

// FormatUpvotes renders an upvote count. Counts of 1000 and above get a "k"
// suffix with the thousands truncated, not rounded.
func FormatUpvotes(upvotes int, show bool) string {
	if !show {
		return ""
	}
	if upvotes >= 1000 {
		return fmt.Sprintf("⬆️ %dk", upvotes/1000)
	}
	return fmt.Sprintf("⬆️ %d", upvotes)
}

// FormatTimestamp wraps a non-empty timestamp in the italic marker used
// throughout the document.
func FormatTimestamp(timestamp string, show bool) string {
	if !show || timestamp == "" {
		return ""
	}
	return fmt.Sprintf("_( %s )_", timestamp)
}

// Timestamp renders epoch seconds as a UTC wall-clock string, or "" when the
// payload carried none.
func Timestamp(epoch float64) string {
	if epoch <= 0 {
		return ""
	}
	return time.Unix(int64(epoch), 0).UTC().Format("2006-01-02 15:04:05")
}

// AuthorLink hyperlinks an author to their profile. The removed-account
// marker and empty names are rendered verbatim, without a link.
func AuthorLink(author string) string {
	if author == "" || author == DeletedMarker {
		return author
	}
	return fmt.Sprintf("[%s](%s%s)", author, userProfileBase, author)
}

// AuthorWithOPMarker is AuthorLink with an "(OP)" suffix when the reply
// author is the post author.
func AuthorWithOPMarker(author, postAuthor string) string {
	link := AuthorLink(author)
	if author == postAuthor && link != "" {
		return link + " (OP)"
	}
	return link
}

// EscapeSelfText resolves the platform's HTML entity escapes in a post body.
func EscapeSelfText(text string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
	return r.Replace(text)
}

// LinkifyMentions turns in-body u/name mentions into profile links.
func LinkifyMentions(body string) string {
	return mentionRe.ReplaceAllString(body, "[u/$1]("+userProfileBase+"$1)")
}
