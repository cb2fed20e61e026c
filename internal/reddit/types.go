package reddit

import (
	"encoding/json"
	"fmt"

	"github.com/redmark/pkg/models"
)

// Kind values used by the listing envelope.
const (
	KindComment = "t1"
	KindPost    = "t3"
	KindListing = "Listing"
	KindMore    = "more"
)

// Thing is the generic envelope every Reddit object arrives in.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Listing holds an ordered page of child things.
type Listing struct {
	Data struct {
		After    string  `json:"after"`
		Children []Thing `json:"children"`
	} `json:"data"`
}

// postData is the wire shape of the post object (element 0 of the payload).
type postData struct {
	Title                 string  `json:"title"`
	Author                string  `json:"author"`
	SubredditNamePrefixed string  `json:"subreddit_name_prefixed"`
	SelfText              string  `json:"selftext"`
	URL                   string  `json:"url"`
	URLOverriddenByDest   string  `json:"url_overridden_by_dest"`
	Ups                   int     `json:"ups"`
	CreatedUTC            float64 `json:"created_utc"`
	Locked                bool    `json:"locked"`
	NumComments           int     `json:"num_comments"`
	Permalink             string  `json:"permalink"`
}

// commentData is the wire shape of a comment node. Replies is either the
// empty string (no children) or a nested Listing of the same shape, so it is
// held as a RawMessage and decoded on demand.
type commentData struct {
	ID         string          `json:"id"`
	Author     string          `json:"author"`
	Body       string          `json:"body"`
	Ups        int             `json:"ups"`
	CreatedUTC float64         `json:"created_utc"`
	Depth      int             `json:"depth"`
	Replies    json.RawMessage `json:"replies"`
}

// linkData is the subset of post fields needed when reading a subreddit
// listing for its permalinks.
type linkData struct {
	Permalink string `json:"permalink"`
}

// Thread is the decoded form of one thread's two-part payload.
type Thread struct {
	Post    models.PostRecord
	Replies []*models.ReplyNode
}

// DecodeThread decodes the two-element array returned for <link>.json into a
// post record and a reply tree. Child depth is assigned structurally as
// parent depth + 1, starting at 0 for top-level replies.
func DecodeThread(raw []byte) (*Thread, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("payload is not a listing array: %w", err)
	}
	if len(parts) < 2 {
		return nil, errEmptyPayload
	}

	var postListing Listing
	if err := json.Unmarshal(parts[0], &postListing); err != nil {
		return nil, fmt.Errorf("decoding post listing: %w", err)
	}
	if len(postListing.Data.Children) == 0 {
		return nil, errEmptyPayload
	}

	var pd postData
	if err := json.Unmarshal(postListing.Data.Children[0].Data, &pd); err != nil {
		return nil, fmt.Errorf("decoding post data: %w", err)
	}

	var replyListing Listing
	if err := json.Unmarshal(parts[1], &replyListing); err != nil {
		return nil, fmt.Errorf("decoding reply listing: %w", err)
	}

	return &Thread{
		Post: models.PostRecord{
			Author:      pd.Author,
			Subreddit:   pd.SubredditNamePrefixed,
			Title:       pd.Title,
			URL:         pd.URL,
			MediaURL:    pd.URLOverriddenByDest,
			SelfText:    pd.SelfText,
			CreatedUTC:  pd.CreatedUTC,
			Upvotes:     pd.Ups,
			Locked:      pd.Locked,
			NumComments: pd.NumComments,
		},
		Replies: decodeReplyLevel(replyListing.Data.Children, 0),
	}, nil
}

func decodeReplyLevel(children []Thing, depth int) []*models.ReplyNode {
	var nodes []*models.ReplyNode
	for _, child := range children {
		if child.Kind != KindComment {
			// "more" stubs stand in for replies the platform hides from
			// default-depth listings; they are not recovered.
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			continue
		}
		node := &models.ReplyNode{
			ID:         cd.ID,
			Author:     cd.Author,
			Body:       cd.Body,
			Upvotes:    cd.Ups,
			CreatedUTC: cd.CreatedUTC,
			Depth:      depth,
		}
		node.Children = decodeChildReplies(cd.Replies, depth+1)
		nodes = append(nodes, node)
	}
	return nodes
}

// decodeChildReplies resolves the replies field, which carries "" when a
// comment has no children.
func decodeChildReplies(raw json.RawMessage, depth int) []*models.ReplyNode {
	if len(raw) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return nil
	}
	var nested Listing
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil
	}
	return decodeReplyLevel(nested.Data.Children, depth)
}
