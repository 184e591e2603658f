package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings for tanki. The env tag names the
// variable each field is read from and is also used in validation messages.
type Config struct {
	DeckDir     string `env:"TANKI_DECK_DIR" validate:"required"`
	DeckExt     string `env:"TANKI_DECK_EXT" validate:"required,startswith=.,excludes=/"`
	JournalPath string `env:"TANKI_JOURNAL_PATH"`
	LogLevel    string `env:"LOG_LEVEL" validate:"required,oneof=DEBUG INFO WARN ERROR"`
	LogColors   bool   `env:"LOG_COLORS"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		DeckDir:     envOr("TANKI_DECK_DIR", defaultDeckDir()),
		DeckExt:     envOr("TANKI_DECK_EXT", ".deck"),
		JournalPath: os.Getenv("TANKI_JOURNAL_PATH"),
		LogLevel:    strings.ToUpper(envOr("LOG_LEVEL", "WARN")),
		LogColors:   envBoolOr("LOG_COLORS", false),
	}
}

// Validate checks every field and reports all failures at once, each one
// named by its environment variable.
func (c Config) Validate() error {
	c.LogLevel = strings.ToUpper(c.LogLevel)

	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", fe.Field(), fe.Param(), fe.Value())
	case "startswith":
		return fmt.Sprintf("%s must start with %q, got %q", fe.Field(), fe.Param(), fe.Value())
	case "excludes":
		return fmt.Sprintf("%s must not contain %q, got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func defaultDeckDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tanki_decks"
	}
	return filepath.Join(home, ".tanki_decks")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
