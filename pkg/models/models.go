// Package models contains the shared data records passed between the
// pipeline stages: the post view, the reply tree, and per-link outcomes.
package models

import "time"

// PostRecord is an immutable view of the post metadata extracted from the
// first element of the thread payload.
type PostRecord struct {
	Author      string
	Subreddit   string // prefixed label, e.g. "r/golang"
	Title       string
	URL         string // external/media URL from the post itself
	MediaURL    string // url_overridden_by_dest when present
	SelfText    string
	CreatedUTC  float64 // epoch seconds
	Upvotes     int
	Locked      bool
	NumComments int
}

// Created returns the post creation time in UTC, or the zero time when the
// payload carried no timestamp.
func (p *PostRecord) Created() time.Time {
	if p.CreatedUTC <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(p.CreatedUTC), 0).UTC()
}

// ReplyNode is one node of the reply tree. Depth is 0 for top-level replies
// and parent depth + 1 for every child.
type ReplyNode struct {
	ID         string
	Author     string
	Body       string
	Upvotes    int
	CreatedUTC float64
	Depth      int
	Children   []*ReplyNode
}

// FlatReply is one entry of the flattened reply sequence. Depth is carried
// over from the tree; it is never recomputed from list position.
type FlatReply struct {
	Depth int
	Node  *ReplyNode
}

// Outcome records the result of processing one thread link. Exactly one of
// Path and Err is meaningful.
type Outcome struct {
	Link string
	Path string
	Err  error
}

// OK reports whether the link was processed and written successfully.
func (o Outcome) OK() bool { return o.Err == nil }
