package reddit

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// BaseURL is the anonymous endpoint for thread and listing JSON.
	BaseURL = "https://www.reddit.com"
	// OAuthBaseURL serves the same listings for authenticated requests.
	OAuthBaseURL = "https://oauth.reddit.com"
)

var postURLRe = regexp.MustCompile(`^https://www\.reddit\.com/r/\w+/comments/\w+/[\w_]+/?`)

// CleanURL strips tracking query parameters (everything from "?utm_source"
// on) and surrounding whitespace from a thread link. Links that differ only
// by tracking suffix clean to the same value.
func CleanURL(link string) string {
	trimmed := strings.TrimSpace(link)
	if i := strings.Index(trimmed, "?utm_source"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// ValidURL reports whether link looks like a canonical Reddit post URL.
func ValidURL(link string) bool {
	return postURLRe.MatchString(link)
}

// BaseName derives the suggested output file name from the last path segment
// of the link. An empty segment falls back to a timestamped name so two
// nameless posts never collide.
func BaseName(link string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(link), "/")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if name == "" {
		return fmt.Sprintf("reddit_no_name_%d", time.Now().Unix())
	}
	return name
}
