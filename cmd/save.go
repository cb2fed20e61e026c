package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/redmark/internal/config"
	"github.com/redmark/internal/filter"
	"github.com/redmark/internal/output"
	"github.com/redmark/internal/pipeline"
	"github.com/redmark/internal/reddit"
	"github.com/redmark/internal/render"
	"github.com/redmark/internal/sources"
)

// SaveCommand returns the save command
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Fetch Reddit threads and save them as Markdown or HTML",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read comma-separated thread links from `FILE` (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "subreddit",
				Aliases: []string{"r"},
				Usage:   "Fetch current best posts from `SUBREDDIT`, e.g. r/golang (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "multireddit",
				Aliases: []string{"m"},
				Usage:   "Expand configured multireddit `NAME`, e.g. m/programming (repeatable)",
			},
		},
		ArgsUsage: "[THREAD_URL...]",
		Action:    runSave,
	}
}

func runSave(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()

	token := acquireToken(ctx, cfg)
	client := reddit.NewClient(reddit.ClientOptions{Token: token})
	resolver := sources.New(client, cfg.MultiReddits)

	inputs := sources.Inputs{
		Links:        c.Args().Slice(),
		Files:        c.StringSlice("file"),
		Subreddits:   c.StringSlice("subreddit"),
		MultiReddits: c.StringSlice("multireddit"),
	}

	var links []string
	if inputs.Empty() {
		text, err := promptForInput()
		if err != nil {
			return err
		}
		links = resolver.ResolvePrompt(ctx, text)
	} else {
		links = resolver.Resolve(ctx, inputs)
	}

	if len(links) == 0 {
		log.Info().Msg("No thread links to process")
		return nil
	}
	log.Info().Int("links", len(links)).Msg("Resolved thread links")

	baseDir, err := output.ResolveSaveDir(cfg.DefaultSaveLocation)
	if err != nil {
		return fmt.Errorf("failed to resolve save directory: %w", err)
	}

	chain, err := filter.NewChain(filter.Config{
		Keywords:   cfg.Filters.Keywords,
		Authors:    cfg.Filters.Authors,
		Regexes:    cfg.Filters.Regexes,
		MinUpvotes: cfg.Filters.MinUpvotes,
		Message:    cfg.FilteredMessage,
	})
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	renderer := render.New(cfg, chain)
	pipe := pipeline.New(client, cfg, renderer, baseDir)
	outcomes := pipe.Run(ctx, links)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.OK() {
			fmt.Printf("saved   %s -> %s\n", outcome.Link, outcome.Path)
		} else {
			failed++
			fmt.Printf("skipped %s (%s)\n", outcome.Link, skipReason(outcome.Err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d links failed", failed, len(outcomes))
	}
	return nil
}

// acquireToken performs the optional startup login. Failure is not fatal;
// processing continues anonymously.
func acquireToken(ctx context.Context, cfg *config.Config) string {
	if !cfg.Auth.LoginOnStartup {
		return ""
	}
	token, err := reddit.RequestAccessToken(ctx, cfg.Auth.ClientID, cfg.Auth.ClientSecret)
	if err != nil {
		log.Warn().Err(err).Msg("Could not log in, proceeding without authentication")
		return ""
	}
	return token
}

func promptForInput() (string, error) {
	fmt.Println("Enter/paste the Reddit link(s), comma-separated. Or 'demo', 'surprise', 'r/subreddit', or 'm/multireddit':")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			return text, nil
		}
		fmt.Println("No input provided. Try again.")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return "", fmt.Errorf("no input provided")
}

// skipReason maps a per-link failure to the distinguishable reason shown to
// the caller.
func skipReason(err error) string {
	switch reddit.KindOf(err) {
	case reddit.FailInvalidLink:
		return "invalid link"
	case reddit.FailHTTP:
		return "network error"
	case reddit.FailDecode:
		return "malformed response"
	case reddit.FailEmpty:
		return "empty payload"
	default:
		return err.Error()
	}
}
