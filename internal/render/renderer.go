// Package render converts a post and its flattened replies into the final
// text document. All assembly happens in Markdown; HTML output is a whole-
// document conversion as the last step.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/redmark/internal/config"
	"github.com/redmark/internal/filter"
	"github.com/redmark/pkg/models"
)

// DefaultPalette are the depth-keyed color glyphs. Depth indexes wrap around
// the palette, since depth is unbounded and the palette is not.
var DefaultPalette = []string{"🟩", "🟨", "🟧", "🟦", "🟪", "🟥", "🟫", "⬛️", "⬜️"}

var newlineRunRe = regexp.MustCompile(`\n{2,}`)

// Renderer assembles documents under one immutable configuration.
type Renderer struct {
	cfg     *config.Config
	chain   *filter.Chain
	palette []string
}

// New creates a Renderer.
func New(cfg *config.Config, chain *filter.Chain) *Renderer {
	return &Renderer{cfg: cfg, chain: chain, palette: DefaultPalette}
}

// Document renders the post and its flattened replies in the configured
// output format.
func (r *Renderer) Document(post *models.PostRecord, flat []models.FlatReply, replyCount int) string {
	md := r.Markdown(post, flat, replyCount)
	if strings.EqualFold(r.cfg.FileFormat, "html") {
		return ToHTML(md)
	}
	return md
}

// Markdown renders the full document in the Markdown domain.
func (r *Renderer) Markdown(post *models.PostRecord, flat []models.FlatReply, replyCount int) string {
	var b strings.Builder

	r.writeHeader(&b, post)
	r.writeBody(&b, post)
	r.writeReplies(&b, post, flat, replyCount)

	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) writeHeader(b *strings.Builder, post *models.PostRecord) {
	upvotes := FormatUpvotes(post.Upvotes, r.cfg.ShowUpvotes)
	timestamp := FormatTimestamp(Timestamp(post.CreatedUTC), r.cfg.ShowTimestamp)

	author := "u/" + post.Author
	if post.Author != DeletedMarker && post.Author != "" {
		author = fmt.Sprintf("[u/%s](%s%s)", post.Author, userProfileBase, post.Author)
	}

	fmt.Fprintf(b, "**%s** | Posted by %s %s %s\n", post.Subreddit, author, upvotes, timestamp)
	fmt.Fprintf(b, "## %s\n", post.Title)
	fmt.Fprintf(b, "Original post: [%s](%s)\n", post.URL, post.URL)

	if post.Locked {
		fmt.Fprintf(b,
			"---\n\n>🔒 **This thread has been locked by the moderators of %s**.\n  New comments cannot be posted\n\n",
			post.Subreddit)
	}
}

func (r *Renderer) writeBody(b *strings.Builder, post *models.PostRecord) {
	if post.SelfText != "" {
		escaped := EscapeSelfText(post.SelfText)
		b.WriteString("> " + strings.ReplaceAll(escaped, "\n", "\n> ") + "\n")
		return
	}
	if embed := mediaEmbed(post); embed != "" {
		b.WriteString(embed)
	}
}

func (r *Renderer) writeReplies(b *strings.Builder, post *models.PostRecord, flat []models.FlatReply, replyCount int) {
	fmt.Fprintf(b, "💬 ~ %d replies\n", replyCount)
	b.WriteString("---\n\n")

	for i, entry := range flat {
		r.writeReply(b, post, entry)

		// Separator only between top-level subtrees, never between a
		// reply and its children.
		if r.cfg.LineBreakBetweenParentReplies && i+1 < len(flat) && flat[i+1].Depth == 0 {
			b.WriteString("---\n\n")
		}
	}
}

func (r *Renderer) writeReply(b *strings.Builder, post *models.PostRecord, entry models.FlatReply) {
	node := entry.Node
	indent := strings.Repeat("\t", entry.Depth)

	glyph := ""
	if r.cfg.ReplyDepthColorIndicators {
		glyph = r.palette[entry.Depth%len(r.palette)]
	}

	author := AuthorWithOPMarker(node.Author, post.Author)
	upvotes := FormatUpvotes(node.Upvotes, r.cfg.ShowUpvotes)
	timestamp := FormatTimestamp(Timestamp(node.CreatedUTC), r.cfg.ShowTimestamp)

	fmt.Fprintf(b, "%s* %s **%s** %s %s\n\n", indent, glyph, author, upvotes, timestamp)

	bodyIndent := indent + "\t"
	if node.Body == DeletedMarker {
		b.WriteString(bodyIndent + "Comment deleted by user\n\n")
		return
	}

	body := r.transformBody(node.Body, bodyIndent)
	// Substitution happens last: a filtered reply's replacement message is
	// never itself re-linkified or re-escaped.
	if r.chain != nil && r.chain.Matches(node.Author, node.Body, node.Upvotes) {
		body = r.chain.Message()
	}
	b.WriteString(bodyIndent + body + "\n\n")
}

// transformBody applies the reply-body transformation chain: collapse
// repeated newlines and carriage returns, re-indent interior newlines,
// restore blockquote markers and spacing entities, then linkify mentions.
func (r *Renderer) transformBody(body, indent string) string {
	body = strings.ReplaceAll(body, "\r", "")
	body = newlineRunRe.ReplaceAllString(body, "\n")
	body = strings.ReplaceAll(body, "\n", "\n"+indent)
	body = strings.ReplaceAll(body, "&gt;", ">")
	body = strings.ReplaceAll(body, "&#32;", " ")
	body = strings.ReplaceAll(body, "^^[", "[")
	body = strings.ReplaceAll(body, "^^(", "(")
	return LinkifyMentions(body)
}

// ToHTML converts an assembled Markdown document into a standalone HTML
// document.
func ToHTML(md string) string {
	body := blackfriday.Run([]byte(md))
	return `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body>` + string(body) + "</body></html>"
}
