// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

const defaultOrigins = "http://localhost:5173,https://chromaviews.com,https://www.chromaviews.com"

// Config holds every tunable of the service.
type Config struct {
	HTTPAddr       string
	AllowedOrigins []string
	MaxImageMB     int
	LogLevel       string
	MaxDimension   int
	DefaultK       int
	Enhance        bool
	NamesFile      string
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{
		HTTPAddr:       ":8000",
		AllowedOrigins: splitList(defaultOrigins),
		MaxImageMB:     10,
		LogLevel:       "info",
		MaxDimension:   imaging.DefaultMaxDimension,
		DefaultK:       palette.DefaultK,
		Enhance:        true,
	}
}

// Load reads envFile (".env" when empty) if it exists and then builds a
// Config from the environment. A missing file is not an error; variables
// already set in the environment take precedence over the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	def := Default()
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", def.HTTPAddr),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", defaultOrigins),
		MaxImageMB:     getEnvInt("MAX_IMAGE_MB", def.MaxImageMB),
		LogLevel:       getEnv("LOG_LEVEL", def.LogLevel),
		MaxDimension:   getEnvInt("MAX_DIMENSION", def.MaxDimension),
		DefaultK:       getEnvInt("DEFAULT_K", def.DefaultK),
		Enhance:        getEnvBool("ENHANCE", def.Enhance),
		NamesFile:      getEnv("NAMES_FILE", ""),
	}, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.MaxImageMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_MB must be positive, got %d", c.MaxImageMB))
	}
	if c.MaxDimension < 0 {
		errs = append(errs, fmt.Errorf("MAX_DIMENSION must not be negative, got %d", c.MaxDimension))
	}
	if err := palette.ValidateK(c.DefaultK); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_K: %w", err))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not a known level", c.LogLevel))
	}
	return errors.Join(errs...)
}

// MaxImageBytes is the upload limit in bytes.
func (c Config) MaxImageBytes() int64 {
	return int64(c.MaxImageMB) << 20
}

// PrepareOptions returns the image preparation settings.
func (c Config) PrepareOptions() imaging.PrepareOptions {
	return imaging.PrepareOptions{MaxDimension: c.MaxDimension, Enhance: c.Enhance}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return splitList(value)
}

// splitList splits a comma separated list, trimming blanks and dropping
// empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
