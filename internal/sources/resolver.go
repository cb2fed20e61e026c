// Package sources turns raw input tokens into a concrete ordered list of
// thread links. Each input channel contributes independently; a failing
// channel warns and contributes nothing rather than aborting the rest.
package sources

import (
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/redmark/internal/reddit"
)

// DemoLink is the fixed demonstration thread used by the "demo" keyword.
const DemoLink = "https://www.reddit.com/r/pcmasterrace/comments/101kjyq/my_dad_has_been_playing_civilization_almost_daily/"

// Keywords accepted in the free-text prompt.
const (
	KeywordDemo     = "demo"
	KeywordSurprise = "surprise"
)

// trendingFeed is the source of the "surprise" random pick.
const trendingFeed = "r/popular"

// ListingFetcher reads subreddit listings. *reddit.Client satisfies it.
type ListingFetcher interface {
	FetchSubredditPosts(ctx context.Context, subreddit string, best bool) ([]string, error)
}

// Inputs are the channels supplied together by the caller. Results
// concatenate in fixed channel order: explicit links, file-sourced links,
// subreddit expansions, multireddit expansions.
type Inputs struct {
	Links        []string
	Files        []string
	Subreddits   []string
	MultiReddits []string
}

// Empty reports whether no channel carries any value.
func (in Inputs) Empty() bool {
	return len(in.Links) == 0 && len(in.Files) == 0 && len(in.Subreddits) == 0 && len(in.MultiReddits) == 0
}

// Resolver expands input tokens into cleaned thread links.
type Resolver struct {
	fetcher      ListingFetcher
	multiReddits map[string][]string
}

// New creates a Resolver. multiReddits maps curated-group names ("m/...")
// to their member subreddits.
func New(fetcher ListingFetcher, multiReddits map[string][]string) *Resolver {
	return &Resolver{fetcher: fetcher, multiReddits: multiReddits}
}

// Resolve expands every channel of in. An empty result is valid and means
// there is nothing to do.
func (r *Resolver) Resolve(ctx context.Context, in Inputs) []string {
	var links []string

	links = append(links, in.Links...)

	for _, path := range in.Files {
		links = append(links, linksFromFile(path)...)
	}

	for _, sub := range in.Subreddits {
		links = append(links, r.subredditLinks(ctx, sub, false)...)
	}

	for _, multi := range in.MultiReddits {
		links = append(links, r.multiRedditLinks(ctx, multi, false)...)
	}

	return cleanAll(links)
}

// ResolvePrompt interprets a single free-text value: a special keyword, a
// subreddit or multireddit token, or a comma-separated list of links.
func (r *Resolver) ResolvePrompt(ctx context.Context, text string) []string {
	text = strings.TrimSpace(text)

	switch strings.ToLower(text) {
	case KeywordDemo:
		log.Info().Msg("Demo mode enabled")
		return []string{DemoLink}
	case KeywordSurprise:
		log.Info().Str("feed", trendingFeed).Msg("Surprise mode enabled, grabbing one random post")
		return cleanAll(r.randomTrendingLink(ctx))
	}

	if strings.HasPrefix(text, "r/") {
		return cleanAll(r.subredditLinks(ctx, text, true))
	}
	if strings.HasPrefix(text, "m/") {
		return cleanAll(r.multiRedditLinks(ctx, text, true))
	}

	var links []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	return cleanAll(links)
}

func (r *Resolver) subredditLinks(ctx context.Context, subreddit string, best bool) []string {
	subreddit = strings.TrimPrefix(subreddit, "/")
	links, err := r.fetcher.FetchSubredditPosts(ctx, subreddit, best)
	if err != nil {
		log.Warn().Err(err).Str("subreddit", subreddit).Msg("Could not resolve subreddit, skipping")
		return nil
	}
	return links
}

// multiRedditLinks expands a curated group. The prompt path asks for the best
// ordering of each member; the flag channel reads the default listing.
func (r *Resolver) multiRedditLinks(ctx context.Context, name string, best bool) []string {
	subs, ok := r.multiReddits[name]
	if !ok {
		log.Warn().Str("multireddit", name).Msg("No subreddits configured for multireddit, skipping")
		return nil
	}
	var links []string
	for _, sub := range subs {
		links = append(links, r.subredditLinks(ctx, sub, best)...)
	}
	return links
}

func (r *Resolver) randomTrendingLink(ctx context.Context) []string {
	links, err := r.fetcher.FetchSubredditPosts(ctx, trendingFeed, true)
	if err != nil {
		log.Warn().Err(err).Msg("Could not fetch trending feed")
		return nil
	}
	if len(links) == 0 {
		return nil
	}
	return []string{links[rand.Intn(len(links))]}
}

// linksFromFile reads comma-separated links from a file. A missing file is
// skipped with a warning.
func linksFromFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Str("file", path).Msg("File not found, skipping")
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Could not parse link file, skipping")
		return nil
	}

	var links []string
	for _, record := range records {
		for _, field := range record {
			if field = strings.TrimSpace(field); field != "" {
				links = append(links, field)
			}
		}
	}
	return links
}

// cleanAll strips tracking suffixes and drops values that clean to empty.
func cleanAll(links []string) []string {
	var out []string
	for _, link := range links {
		if cleaned := reddit.CleanURL(link); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
