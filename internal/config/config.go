package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AuthSettings configures the optional client-credentials login used for
// elevated API access.
type AuthSettings struct {
	LoginOnStartup bool   `koanf:"login_on_startup"`
	ClientID       string `koanf:"client_id"`
	ClientSecret   string `koanf:"client_secret"`
}

// FilterSettings are the content-filter rules applied to reply bodies.
type FilterSettings struct {
	Keywords   []string `koanf:"keywords"`
	Authors    []string `koanf:"authors"`
	MinUpvotes int      `koanf:"min_upvotes"`
	Regexes    []string `koanf:"regexes"`
}

// Config represents the application configuration. It is constructed once
// per run and passed by reference into every component; nothing reads
// configuration from ambient state.
type Config struct {
	FileFormat                    string `koanf:"file_format"`
	ShowUpvotes                   bool   `koanf:"show_upvotes"`
	ShowTimestamp                 bool   `koanf:"show_timestamp"`
	ReplyDepthMax                 int    `koanf:"reply_depth_max"`
	ReplyDepthColorIndicators     bool   `koanf:"reply_depth_color_indicators"`
	LineBreakBetweenParentReplies bool   `koanf:"line_break_between_parent_replies"`
	ShowAutoModComment            bool   `koanf:"show_auto_mod_comment"`
	OverwriteExistingFile         bool   `koanf:"overwrite_existing_file"`
	SavePostsBySubreddits         bool   `koanf:"save_posts_by_subreddits"`
	UseTimestampedDirectories     bool   `koanf:"use_timestamped_directories"`
	DefaultSaveLocation           string `koanf:"default_save_location"`
	FilteredMessage               string `koanf:"filtered_message"`

	Auth         AuthSettings        `koanf:"auth"`
	Filters      FilterSettings      `koanf:"filters"`
	MultiReddits map[string][]string `koanf:"multi_reddits"`
}

// LoadConfig loads the configuration from a file, layered over defaults and
// under REDMARK_* environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"file_format":                       "md",
		"show_upvotes":                      true,
		"show_timestamp":                    false,
		"reply_depth_max":                   -1,
		"reply_depth_color_indicators":      true,
		"line_break_between_parent_replies": true,
		"show_auto_mod_comment":             false,
		"overwrite_existing_file":           false,
		"save_posts_by_subreddits":          false,
		"use_timestamped_directories":       false,
		"filtered_message":                  "Comment removed by filters.",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try to load from default locations
		defaultPaths := []string{"./redmark.toml", "$HOME/.redmark.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix REDMARK_. Top-level keys
	// keep their underscores (REDMARK_FILE_FORMAT -> file_format); only the
	// known section prefixes split into nested keys
	// (REDMARK_AUTH_CLIENT_ID -> auth.client_id).
	sections := []string{"auth_", "filters_", "multi_reddits_"}
	k.Load(env.Provider("REDMARK_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "REDMARK_"))
		for _, section := range sections {
			if strings.HasPrefix(key, section) {
				return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
			}
		}
		return key
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# redmark configuration

file_format = "md"                        # "md" or "html"
show_upvotes = true
show_timestamp = false
reply_depth_max = -1                      # -1 = unlimited, 0 = top-level only
reply_depth_color_indicators = true
line_break_between_parent_replies = true
show_auto_mod_comment = false
overwrite_existing_file = false
save_posts_by_subreddits = false
use_timestamped_directories = false
default_save_location = ""                # empty = current directory
filtered_message = "Comment removed by filters."

[auth]
login_on_startup = false
client_id = ""
client_secret = ""

[filters]
keywords = []
authors = []
min_upvotes = 0
regexes = []

[multi_reddits]
# "m/programming" = ["r/golang", "r/programming"]
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	switch strings.ToLower(config.FileFormat) {
	case "md", "html":
	default:
		return fmt.Errorf("file_format must be \"md\" or \"html\", got %q", config.FileFormat)
	}

	if config.ReplyDepthMax < -1 {
		return fmt.Errorf("reply_depth_max must be -1 or greater, got %d", config.ReplyDepthMax)
	}

	if config.FilteredMessage == "" {
		return fmt.Errorf("filtered_message must not be empty")
	}

	for _, expr := range config.Filters.Regexes {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("invalid filter regex %q: %w", expr, err)
		}
	}

	if config.Auth.LoginOnStartup {
		if config.Auth.ClientID == "" || config.Auth.ClientSecret == "" {
			return fmt.Errorf("auth.client_id and auth.client_secret are required when login_on_startup is set")
		}
	}

	for name := range config.MultiReddits {
		if !strings.HasPrefix(name, "m/") {
			return fmt.Errorf("multi_reddits key %q must start with \"m/\"", name)
		}
	}

	return nil
}
