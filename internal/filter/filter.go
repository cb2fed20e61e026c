// Package filter decides whether a reply body is replaced with the
// configured notice. Rules are evaluated in a fixed order with
// first-match-wins semantics: keyword, author, regex, upvote threshold.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Config lists the rule inputs. Keywords match as case-sensitive substrings,
// authors match exactly, regexes are compiled once at chain construction.
type Config struct {
	Keywords   []string
	Authors    []string
	Regexes    []string
	MinUpvotes int
	Message    string
}

type matcher interface {
	matches(author, body string, upvotes int) bool
}

type keywordRule struct{ keywords []string }

func (r keywordRule) matches(_, body string, _ int) bool {
	for _, kw := range r.keywords {
		if kw != "" && strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

type authorRule struct{ authors []string }

func (r authorRule) matches(author, _ string, _ int) bool {
	for _, a := range r.authors {
		if author == a {
			return true
		}
	}
	return false
}

type regexRule struct{ patterns []*regexp.Regexp }

func (r regexRule) matches(_, body string, _ int) bool {
	for _, re := range r.patterns {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

type upvoteRule struct{ min int }

func (r upvoteRule) matches(_, _ string, upvotes int) bool {
	return upvotes < r.min
}

// Chain is the ordered rule list plus the replacement message.
type Chain struct {
	rules   []matcher
	message string
}

// NewChain compiles the rules. An invalid regex is a configuration error.
func NewChain(cfg Config) (*Chain, error) {
	patterns := make([]*regexp.Regexp, 0, len(cfg.Regexes))
	for _, expr := range cfg.Regexes {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling filter regex %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}

	return &Chain{
		rules: []matcher{
			keywordRule{keywords: cfg.Keywords},
			authorRule{authors: cfg.Authors},
			regexRule{patterns: patterns},
			upvoteRule{min: cfg.MinUpvotes},
		},
		message: cfg.Message,
	}, nil
}

// Matches reports whether any rule fires for the reply.
func (c *Chain) Matches(author, body string, upvotes int) bool {
	for _, rule := range c.rules {
		if rule.matches(author, body, upvotes) {
			return true
		}
	}
	return false
}

// Apply returns the replacement message when a rule fires, otherwise the
// body unchanged.
func (c *Chain) Apply(author, body string, upvotes int) string {
	if c.Matches(author, body, upvotes) {
		return c.message
	}
	return body
}

// Message returns the configured replacement text.
func (c *Chain) Message() string { return c.message }
