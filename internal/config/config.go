package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Netflix export
	HistoryFile         string // NETFLIX_HISTORY_FILE
	DateFormat          string // strftime pattern or Go layout of the export dates
	Delimiter           rune
	SingleColonEpisodes bool // record "Show: Episode" titles as episodes as well as movies

	// TMDB
	TMDBAPIKey          string
	TMDBLanguage        string
	TMDBStrict          bool // abort the run on movie lookup errors
	TMDBEpisodeLanguage bool // compare episode names using TMDB translations
	TMDBCacheMinutes    int

	// Trakt
	TraktClientID     string
	TraktClientSecret string
	TraktDryRun       bool
	TraktPageSize     int

	// Scheduler
	SyncSchedule string

	// Server
	ServerPort string

	// Paths
	TokenFile    string // $CONFIG_DIR/token.json
	IgnoreFile   string // $CONFIG_DIR/ignore.txt
	DatabaseFile string // $CONFIG_DIR/nflxtrakt.db

	// Logging
	LogLevel string
	LogFile  string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// .env is optional
	_ = v.ReadInConfig()

	v.SetDefault("NETFLIX_HISTORY_FILE", "NetflixViewingHistory.csv")
	v.SetDefault("NETFLIX_DATE_FORMAT", "%d.%m.%y")
	v.SetDefault("NETFLIX_DELIMITER", ",")
	v.SetDefault("NETFLIX_SINGLE_COLON_EPISODES", true)
	v.SetDefault("TMDB_LANGUAGE", "en")
	v.SetDefault("TMDB_STRICT", false)
	v.SetDefault("TMDB_EPISODE_LANGUAGE_SEARCH", false)
	v.SetDefault("TMDB_CACHE_MINUTES", 60)
	v.SetDefault("TRAKT_DRY_RUN", false)
	v.SetDefault("TRAKT_PAGE_SIZE", 1000)
	v.SetDefault("SYNC_SCHEDULE", "0 */6 * * *")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	delimiter, err := parseDelimiter(v.GetString("NETFLIX_DELIMITER"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		HistoryFile:         v.GetString("NETFLIX_HISTORY_FILE"),
		DateFormat:          v.GetString("NETFLIX_DATE_FORMAT"),
		Delimiter:           delimiter,
		SingleColonEpisodes: v.GetBool("NETFLIX_SINGLE_COLON_EPISODES"),

		TMDBAPIKey:          v.GetString("TMDB_API_KEY"),
		TMDBLanguage:        v.GetString("TMDB_LANGUAGE"),
		TMDBStrict:          v.GetBool("TMDB_STRICT"),
		TMDBEpisodeLanguage: v.GetBool("TMDB_EPISODE_LANGUAGE_SEARCH"),
		TMDBCacheMinutes:    v.GetInt("TMDB_CACHE_MINUTES"),

		TraktClientID:     v.GetString("TRAKT_CLIENT_ID"),
		TraktClientSecret: v.GetString("TRAKT_CLIENT_SECRET"),
		TraktDryRun:       v.GetBool("TRAKT_DRY_RUN"),
		TraktPageSize:     v.GetInt("TRAKT_PAGE_SIZE"),

		SyncSchedule: v.GetString("SYNC_SCHEDULE"),
		ServerPort:   v.GetString("SERVER_PORT"),

		TokenFile:    filepath.Join(configDir, "token.json"),
		IgnoreFile:   filepath.Join(configDir, "ignore.txt"),
		DatabaseFile: filepath.Join(configDir, "nflxtrakt.db"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}

	if config.TraktPageSize <= 0 {
		return nil, fmt.Errorf("TRAKT_PAGE_SIZE must be positive, got %d", config.TraktPageSize)
	}

	return config, nil
}

// ValidateSync checks the settings needed to talk to TMDB and Trakt
func (c *Config) ValidateSync() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TraktClientID == "" {
		return fmt.Errorf("TRAKT_CLIENT_ID is required")
	}
	if c.TraktClientSecret == "" {
		return fmt.Errorf("TRAKT_CLIENT_SECRET is required")
	}
	return nil
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "nflxtrakt"), nil
	}

	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("NETFLIX_DELIMITER must be a single character, got %q", s)
	}
	return runes[0], nil
}
