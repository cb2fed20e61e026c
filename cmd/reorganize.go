package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/redmark/internal/config"
	"github.com/redmark/internal/output"
)

// ReorganizeCommand returns the reorganize command: a retrospective utility
// that moves previously saved documents into YYYY-MM-DD subdirectories.
func ReorganizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "reorganize",
		Usage: "Move saved documents into date subdirectories by modification time",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to reorganize (defaults to the configured save location)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent file movers",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report planned moves without performing them",
			},
		},
		Action: runReorganize,
	}
}

func runReorganize(c *cli.Context) error {
	dir := c.String("dir")
	if dir == "" {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		dir, err = output.ResolveSaveDir(cfg.DefaultSaveLocation)
		if err != nil {
			return fmt.Errorf("failed to resolve save directory: %w", err)
		}
	}

	paths, err := collectDocuments(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Info().Str("dir", dir).Msg("No documents to reorganize")
		return nil
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}
	dryRun := c.Bool("dry-run")

	moved := reorganize(dir, paths, workers, dryRun)
	log.Info().Int("moved", moved).Int("total", len(paths)).Msg("Reorganization complete")
	return nil
}

// collectDocuments lists the saved documents sitting directly in dir.
// Documents already filed into subdirectories are left alone.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md", ".html":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// reorganize moves files with a bounded worker pool pulling from a shared
// queue. Each move is independent; a failure is logged and never aborts the
// pool.
func reorganize(baseDir string, paths []string, workers int, dryRun bool) int {
	queue := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	moved := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				if err := moveByDate(baseDir, path, dryRun); err != nil {
					log.Error().Err(err).Str("file", path).Msg("Could not move file")
					continue
				}
				mu.Lock()
				moved++
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		queue <- path
	}
	close(queue)
	wg.Wait()

	return moved
}

func moveByDate(baseDir, path string, dryRun bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	day := info.ModTime().UTC().Format("2006-01-02")
	targetDir := filepath.Join(baseDir, day)
	target := filepath.Join(targetDir, filepath.Base(path))

	if dryRun {
		log.Info().Str("from", path).Str("to", target).Msg("Would move")
		return nil
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}
	if err := os.Rename(path, target); err != nil {
		return err
	}
	log.Debug().Str("from", path).Str("to", target).Msg("Moved")
	return nil
}
