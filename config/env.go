package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// applyEnv loads rootDir/.env, without replacing variables already set,
// and applies GRIST_* overrides to c.
func applyEnv(c *Config, rootDir string) error {
	if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		log.Debug().Msg("No .env file found, using environment variables")
	}

	c.OutputDir = getEnv("GRIST_OUTPUT_DIR", c.OutputDir)
	c.TranslationsDir = getEnv("GRIST_TRANSLATIONS_DIR", c.TranslationsDir)
	if v := os.Getenv("GRIST_FALLBACK_TO_ENGLISH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GRIST_FALLBACK_TO_ENGLISH: %w", err)
		}
		c.FallbackToEnglish = &b
	}
	if v, ok := os.LookupEnv("GRIST_PSEUDO_LOCALES"); ok {
		c.PseudoLocales = splitList(v)
	}
	if v := os.Getenv("GRIST_LANGUAGES"); v != "" {
		c.Languages = splitList(v)
	}
	c.Workers = getEnvInt("GRIST_WORKERS", c.Workers)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitList splits a comma separated list, dropping empty items. An empty
// string yields an empty, non-nil list.
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
