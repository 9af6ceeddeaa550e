// Package config loads adaptiq settings from defaults, an optional YAML
// file and ADAPTIQ_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/session"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ADAPTIQ"

// Config holds all application configuration.
type Config struct {
	// DB is the SQLite database path. Empty means the default location.
	DB string `mapstructure:"db"`

	// Learner names the person taking sessions.
	Learner string `mapstructure:"learner" validate:"max=64"`

	// Remember persists last-correct stamps across sessions.
	Remember bool `mapstructure:"remember"`

	Log     LogConfig      `mapstructure:"log"`
	Session session.Config `mapstructure:"session"`
	LLM     llm.Config     `mapstructure:"llm"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Learner: "learner",
		Log:     LogConfig{Level: "warn", Format: "text"},
		Session: session.DefaultConfig(),
		LLM:     llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/adaptiq/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "adaptiq", "config.yaml")
}

// Load reads configuration. When path is empty the default path is used
// if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && (explicit || !notFound(err)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func notFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

// setDefaults registers every key so AutomaticEnv can override keys that
// have no file entry.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db", d.DB)
	v.SetDefault("learner", d.Learner)
	v.SetDefault("remember", d.Remember)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("session.initial_difficulty", d.Session.InitialDifficulty)
	v.SetDefault("session.max_questions", d.Session.MaxQuestions)
	v.SetDefault("session.spaced_repetition", d.Session.SpacedRepetition)
	v.SetDefault("session.auto_advance", d.Session.AutoAdvance)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.anthropic.api_key", d.LLM.Anthropic.APIKey)
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", d.LLM.OpenAI.APIKey)
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", d.LLM.OpenAI.BaseURL)
	v.SetDefault("llm.gemini.api_key", d.LLM.Gemini.APIKey)
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", d.LLM.OpenRouter.APIKey)
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.LLM.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)
}
