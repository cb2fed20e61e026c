// Package pipeline sequences the per-link chain: fetch, walk, render,
// resolve path, write. A failure on one link never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/redmark/internal/config"
	"github.com/redmark/internal/output"
	"github.com/redmark/internal/reddit"
	"github.com/redmark/internal/render"
	"github.com/redmark/internal/replies"
	"github.com/redmark/pkg/models"
)

// ThreadFetcher downloads one thread's payload. *reddit.Client satisfies it.
type ThreadFetcher interface {
	FetchThread(ctx context.Context, link string) (*reddit.Thread, error)
}

// Pipeline processes thread links one at a time. All entities created for a
// link are discarded after its file write; only the display-only reply-count
// map survives across links.
type Pipeline struct {
	fetcher     ThreadFetcher
	cfg         *config.Config
	renderer    *render.Renderer
	baseDir     string
	replyCounts map[string]int
}

// New creates a Pipeline writing under baseDir.
func New(fetcher ThreadFetcher, cfg *config.Config, renderer *render.Renderer, baseDir string) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		cfg:         cfg,
		renderer:    renderer,
		baseDir:     baseDir,
		replyCounts: make(map[string]int),
	}
}

// Run processes every link in order and returns one outcome per link.
func (p *Pipeline) Run(ctx context.Context, links []string) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(links))
	for i, link := range links {
		log.Info().Int("post", i+1).Int("total", len(links)).Str("link", link).Msg("Processing post")

		path, err := p.processLink(ctx, link)
		if err != nil {
			log.Error().Err(err).Str("link", link).Msg("Failed to process post, skipping")
			outcomes = append(outcomes, models.Outcome{Link: link, Err: err})
			continue
		}
		outcomes = append(outcomes, models.Outcome{Link: link, Path: path})
	}
	return outcomes
}

// ReplyCount returns the number of rendered replies for a processed link.
// The count is display-only and under-counts the platform total.
func (p *Pipeline) ReplyCount(link string) (int, bool) {
	n, ok := p.replyCounts[link]
	return n, ok
}

func (p *Pipeline) processLink(ctx context.Context, link string) (string, error) {
	if !reddit.ValidURL(link) {
		return "", &reddit.FetchError{Kind: reddit.FailInvalidLink, Link: link}
	}

	thread, err := p.fetcher.FetchThread(ctx, link)
	if err != nil {
		return "", err
	}

	flat, count := replies.Flatten(thread.Replies, replies.Options{
		MaxDepth:    p.cfg.ReplyDepthMax,
		ShowAutoMod: p.cfg.ShowAutoModComment,
	})
	p.replyCounts[link] = count

	content := p.renderer.Document(&thread.Post, flat, count)

	path, err := output.Resolve(output.Options{
		BaseDir:     p.baseDir,
		BySubreddit: p.cfg.SavePostsBySubreddits,
		Timestamped: p.cfg.UseTimestampedDirectories,
		Overwrite:   p.cfg.OverwriteExistingFile,
		Format:      p.cfg.FileFormat,
	}, link, thread.Post.Subreddit, thread.Post.Created())
	if err != nil {
		return "", err
	}

	if err := writeFile(path, content); err != nil {
		return "", err
	}

	log.Info().Str("title", thread.Post.Title).Str("path", path).Msg("Saved post")
	return path, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
