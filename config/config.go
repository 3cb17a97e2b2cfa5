package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DEFAULT_MODEL        = "gpt-4o-mini"
	DEFAULT_SEARCH_LIMIT = 10
	DEFAULT_TARGET_SITES = "reddit.com,voz.vn,tinhte.vn"
)

// Config carries everything the pipeline components need. It is built once at
// startup and passed into constructors; nothing reads the environment after this.
type Config struct {
	DatabaseURL string

	OpenAIAPIKey string
	Model        string

	RedditClientID     string
	RedditClientSecret string

	SearchLimit int
	TargetSites []string

	// BrowserProfileDir, when set, reuses a persistent browser profile so
	// logged-in sessions and cookies survive across renders.
	BrowserProfileDir string

	// ValkeyAddress enables seen-URL tracking across runs when non-empty.
	ValkeyAddress  string
	ValkeyPassword string

	// CommentDedup enables the stricter dedup-by-(post,author,content) mode
	// instead of the default append-on-recrawl behavior.
	CommentDedup bool
}

// DatabaseFromEnv resolves the Postgres DSN from DATABASE_URL or the split
// DB_* variables. Commands that only touch the database use this directly.
func DatabaseFromEnv() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return "", errors.New("[Config] missing DATABASE_URL (or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME)")
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		dbHost, os.Getenv("DB_PORT"), os.Getenv("DB_NAME")), nil
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		Model:              os.Getenv("OPENAI_MODEL"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		BrowserProfileDir:  os.Getenv("BROWSER_PROFILE_DIR"),
		ValkeyAddress:      os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:     os.Getenv("VALKEY_PASSWORD"),
		CommentDedup:       os.Getenv("COMMENT_DEDUP") == "true",
		SearchLimit:        DEFAULT_SEARCH_LIMIT,
	}

	dsn, err := DatabaseFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("[Config] missing OPENAI_API_KEY")
	}

	if cfg.Model == "" {
		cfg.Model = DEFAULT_MODEL
	}

	sites := os.Getenv("TARGET_SITES")
	if sites == "" {
		sites = DEFAULT_TARGET_SITES
	}
	for _, s := range strings.Split(sites, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.TargetSites = append(cfg.TargetSites, s)
		}
	}

	return cfg, nil
}
