package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matsen/tagbot/internal/tag"
)

// Environment variables that override the global config file.
const (
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvGuildID      = "TAGBOT_GUILD_ID"
	EnvTagsPath     = "TAGBOT_TAGS_PATH"
	EnvDebug        = "TAGBOT_DEBUG"
)

// ErrTokenNotConfigured is returned when no Discord bot token is available.
var ErrTokenNotConfigured = errors.New("discord token not configured")

// Settings is the effective configuration after merging the config file,
// .env and the environment.
type Settings struct {
	DiscordToken string `json:"discord_token,omitempty"`
	GuildID      string `json:"guild_id,omitempty"`
	TagsPath     string `json:"tags_path"`
	Debug        bool   `json:"debug"`
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Resolve merges the global config with environment overrides.
// Priority: environment (including .env) > config file > defaults.
func Resolve() (*Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	s := &Settings{
		DiscordToken: getEnv(EnvDiscordToken, cfg.DiscordToken),
		GuildID:      getEnv(EnvGuildID, cfg.GuildID),
		TagsPath:     ExpandPath(getEnv(EnvTagsPath, cfg.TagsPath)),
		Debug:        getEnvBool(EnvDebug, cfg.Debug),
	}
	if s.TagsPath == "" {
		s.TagsPath = tag.DefaultFile
	}
	return s, nil
}

// ValidateToken returns ErrTokenNotConfigured if the token is empty.
func (s *Settings) ValidateToken() error {
	if strings.TrimSpace(s.DiscordToken) == "" {
		return ErrTokenNotConfigured
	}
	return nil
}

// Masked returns a copy safe to print, with the token hidden.
func (s *Settings) Masked() Settings {
	out := *s
	out.DiscordToken = MaskSecret(s.DiscordToken)
	return out
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
