package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notice = "Comment removed by filters."

func newChain(t *testing.T, cfg Config) *Chain {
	t.Helper()
	cfg.Message = notice
	chain, err := NewChain(cfg)
	require.NoError(t, err)
	return chain
}

func TestKeywordMatchIsCaseSensitiveSubstring(t *testing.T) {
	chain := newChain(t, Config{Keywords: []string{"spam"}})

	assert.Equal(t, notice, chain.Apply("any", "this is spammy", 10))
	assert.Equal(t, "this is SPAM", chain.Apply("any", "this is SPAM", 10), "matching is case-sensitive")
	assert.Equal(t, "clean text", chain.Apply("any", "clean text", 10))
}

func TestAuthorExactMatch(t *testing.T) {
	chain := newChain(t, Config{Authors: []string{"blocked_bot"}})

	assert.Equal(t, notice, chain.Apply("blocked_bot", "anything", 10))
	assert.Equal(t, "anything", chain.Apply("blocked_bot2", "anything", 10))
}

func TestRegexMatch(t *testing.T) {
	chain := newChain(t, Config{Regexes: []string{`\bbuy now\b`}})

	assert.Equal(t, notice, chain.Apply("any", "please buy now today", 10))
	assert.Equal(t, "buys nowhere", chain.Apply("any", "buys nowhere", 10))
}

func TestMinUpvotes(t *testing.T) {
	chain := newChain(t, Config{MinUpvotes: 5})

	assert.Equal(t, notice, chain.Apply("any", "low score", 4))
	assert.Equal(t, "ok", chain.Apply("any", "ok", 5))
}

func TestNoRulesPassthrough(t *testing.T) {
	chain := newChain(t, Config{})
	assert.Equal(t, "untouched", chain.Apply("any", "untouched", 0))
	assert.False(t, chain.Matches("any", "untouched", 0))
}

func TestInvalidRegexIsConfigError(t *testing.T) {
	_, err := NewChain(Config{Regexes: []string{"("}})
	assert.Error(t, err)
}
