package render

import (
	"net/url"
	"path"
	"strings"

	"github.com/redmark/pkg/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var videoHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// mediaEmbed produces at most one Markdown media line for a post that links
// external media: a direct embed for image URLs, a clickable thumbnail for
// the recognized video-hosting domains, or "" when neither applies.
func mediaEmbed(post *models.PostRecord) string {
	mediaURL := post.MediaURL
	if mediaURL == "" {
		mediaURL = post.URL
	}
	if mediaURL == "" {
		return ""
	}

	parsed, err := url.Parse(mediaURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	if imageExtensions[strings.ToLower(path.Ext(parsed.Path))] {
		return "![](" + mediaURL + ")\n"
	}

	if videoHosts[strings.ToLower(parsed.Host)] {
		if id := videoID(parsed); id != "" {
			return "[![](https://img.youtube.com/vi/" + id + "/0.jpg)](" + mediaURL + ")\n"
		}
	}

	return ""
}

// videoID extracts the video identifier, preferring the "v" query parameter
// over the final path segment.
func videoID(u *url.URL) string {
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}
