// Package replies flattens the nested reply tree into an ordered,
// depth-tagged sequence under the depth and visibility rules.
package replies

import (
	"strings"

	"github.com/redmark/pkg/models"
)

// AutoModeratorName is the platform's system moderation account. Its replies
// are excluded entirely (subtree included) when the visibility toggle is off.
const AutoModeratorName = "AutoModerator"

// Options controls the traversal.
type Options struct {
	// MaxDepth limits how deep below top-level the walk reaches.
	// -1 is unlimited, 0 keeps top-level replies only.
	MaxDepth int
	// ShowAutoMod keeps AutoModerator replies in the output.
	ShowAutoMod bool
}

// Flatten walks the reply tree depth-first in pre-order and returns the
// surviving nodes in encounter order together with their count.
//
// A node with an empty body is skipped along with its whole subtree; the
// platform hides those from its own default view and that hiding is
// preserved here. A node deeper than MaxDepth is skipped with its subtree,
// but siblings and unrelated branches are still visited. Content filters are
// not applied here; they substitute text at render time without removing
// nodes, so their still-visible children survive.
//
// The returned count under-counts the platform's own total because hidden
// replies never enter the walk; it is display-only.
func Flatten(top []*models.ReplyNode, opts Options) ([]models.FlatReply, int) {
	var flat []models.FlatReply
	for _, node := range top {
		flat = walk(node, opts, flat)
	}
	return flat, len(flat)
}

func walk(node *models.ReplyNode, opts Options, flat []models.FlatReply) []models.FlatReply {
	if node.Author == AutoModeratorName && !opts.ShowAutoMod {
		return flat
	}
	if strings.TrimSpace(node.Body) == "" {
		return flat
	}
	if opts.MaxDepth != -1 && node.Depth > opts.MaxDepth {
		return flat
	}

	flat = append(flat, models.FlatReply{Depth: node.Depth, Node: node})
	for _, child := range node.Children {
		flat = walk(child, opts, flat)
	}
	return flat
}
