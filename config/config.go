package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string
	AdminRoleID    string

	// Database configuration
	DatabaseURL      string
	DatabaseMaxConns int32

	// Threshold role configuration. Each category has a base role granted by the
	// bot and a winner variant granted elsewhere; holding either satisfies the
	// threshold check.
	WhitelistRoleID       string
	WhitelistWinnerRoleID string
	MoolalistRoleID       string
	MoolalistWinnerRoleID string
	FreeMintRoleID        string
	FreeMintWinnerRoleID  string

	// Flag role granted by the bulk rollout and stripped by the zero-balance purge
	WankedRoleID string

	// Leaderboard configuration
	LeaderboardPageSize int
	ExcludedDiscordIDs  []int64 // team accounts, never ranked

	// Default whitelist minimum used until an admin overrides it
	DefaultWLMinimum int64

	// Base URL of the external wallet linking page; the token is appended as a
	// query parameter
	WalletLinkBaseURL string

	// Health check server
	HealthPort int

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading .env first if present
func load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		AdminRoleID:    os.Getenv("ADMIN_ROLE_ID"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		WhitelistRoleID:       os.Getenv("WHITELIST_ROLE_ID"),
		WhitelistWinnerRoleID: os.Getenv("WHITELIST_WINNER_ROLE_ID"),
		MoolalistRoleID:       os.Getenv("MOOLALIST_ROLE_ID"),
		MoolalistWinnerRoleID: os.Getenv("MOOLALIST_WINNER_ROLE_ID"),
		FreeMintRoleID:        os.Getenv("FREE_MINT_ROLE_ID"),
		FreeMintWinnerRoleID:  os.Getenv("FREE_MINT_WINNER_ROLE_ID"),
		WankedRoleID:          os.Getenv("WANKED_ROLE_ID"),

		// Defaults
		DatabaseMaxConns:    10,
		LeaderboardPageSize: 10,
		DefaultWLMinimum:    100,
		HealthPort:          8899,
		WalletLinkBaseURL:   "https://wanksy.xyz/link",

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if parsed, err := strconv.ParseInt(maxConns, 10, 32); err == nil && parsed > 0 {
			config.DatabaseMaxConns = int32(parsed)
		}
	}
	if pageSize := os.Getenv("LEADERBOARD_PAGE_SIZE"); pageSize != "" {
		if parsed, err := strconv.Atoi(pageSize); err == nil && parsed > 0 {
			config.LeaderboardPageSize = parsed
		}
	}
	if minimum := os.Getenv("DEFAULT_WL_MINIMUM"); minimum != "" {
		if parsed, err := strconv.ParseInt(minimum, 10, 64); err == nil {
			config.DefaultWLMinimum = parsed
		}
	}
	if linkURL := os.Getenv("WALLET_LINK_BASE_URL"); linkURL != "" {
		config.WalletLinkBaseURL = linkURL
	}
	if port := os.Getenv("HEALTH_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			config.HealthPort = parsed
		}
	}

	// Parse excluded Discord IDs (team accounts kept off the leaderboard)
	if excluded := os.Getenv("EXCLUDED_DISCORD_IDS"); excluded != "" {
		idStrings := strings.Split(excluded, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				config.ExcludedDiscordIDs = append(config.ExcludedDiscordIDs, id)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DiscordGuildID == "" {
			return nil, fmt.Errorf("DISCORD_GUILD_ID is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
