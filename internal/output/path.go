// Package output resolves collision-safe destination paths for rendered
// documents.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/redmark/internal/reddit"
)

// envSaveLocation is the literal configuration value that redirects the base
// directory to the environment variable of the same name.
const envSaveLocation = "DEFAULT_REDDIT_SAVE_LOCATION"

// Options is the subfolder and collision policy for one run.
type Options struct {
	BaseDir     string
	BySubreddit bool // append a sanitized community subdirectory
	Timestamped bool // append a YYYY-MM-DD subdirectory from the post creation time
	Overwrite   bool // replace an existing file instead of suffixing
	Format      string
}

// ResolveSaveDir turns the configured save location into a usable base
// directory. The sentinel value defers to the environment; an empty value
// means the current working directory.
func ResolveSaveDir(configured string) (string, error) {
	if configured == envSaveLocation {
		dir := os.Getenv(envSaveLocation)
		if dir == "" {
			return "", fmt.Errorf("%s environment variable not set", envSaveLocation)
		}
		return dir, nil
	}
	if configured != "" {
		return configured, nil
	}
	return os.Getwd()
}

// Resolve computes the final file path for one thread link, creating parent
// directories as needed. Existing files are never silently clobbered: with
// overwrite off, an integer suffix is appended and incremented until an
// unused name is found.
func Resolve(opts Options, link, subreddit string, created time.Time) (string, error) {
	dir := opts.BaseDir

	if opts.BySubreddit {
		name := strings.TrimPrefix(subreddit, "r/")
		if name != "" {
			dir = filepath.Join(dir, name)
		}
	}

	if opts.Timestamped {
		day := created
		if day.IsZero() {
			day = time.Now().UTC()
		}
		dir = filepath.Join(dir, day.Format("2006-01-02"))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	ext := "md"
	if strings.EqualFold(opts.Format, "html") {
		ext = "html"
	}

	name := reddit.BaseName(link)
	candidate := filepath.Join(dir, name+"."+ext)

	if _, err := os.Stat(candidate); err != nil {
		return candidate, nil
	}

	if opts.Overwrite {
		log.Warn().Str("path", candidate).Msg("Overwriting existing file")
		return candidate, nil
	}

	for suffix := 1; ; suffix++ {
		next := filepath.Join(dir, fmt.Sprintf("%s_%d.%s", name, suffix, ext))
		if _, err := os.Stat(next); err != nil {
			log.Info().Str("path", next).Msg("File exists, using suffixed name")
			return next, nil
		}
	}
}
