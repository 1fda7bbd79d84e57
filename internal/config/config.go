// Package config loads application settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/wordmax/internal/assetcache"
	"github.com/abhisek/wordmax/internal/llm"
	"github.com/abhisek/wordmax/internal/speech"
)

// EnvPrefix prefixes every environment variable, e.g. WORDMAX_DATA_SOURCE.
const EnvPrefix = "WORDMAX"

// Config holds application configuration.
type Config struct {
	Env    string       `mapstructure:"env" validate:"oneof=local development production"`
	DB     string       `mapstructure:"db"` // empty means the default data directory
	Data   DataConfig   `mapstructure:"data"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Quiz   QuizConfig   `mapstructure:"quiz"`
	Speech SpeechConfig `mapstructure:"speech"`
	Log    LogConfig    `mapstructure:"log"`
	LLM    llm.Config   `mapstructure:"llm"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

// DataConfig locates the word list.
type DataConfig struct {
	Source   string `mapstructure:"source" validate:"required"`    // path or http(s) URL
	FileName string `mapstructure:"file_name" validate:"required"` // network-first resource name
}

// CacheConfig configures the offline asset cache.
type CacheConfig struct {
	Generation string `mapstructure:"generation" validate:"required"`
	Manifest   string `mapstructure:"manifest"` // optional manifest file; empty means the core assets
	Origin     string `mapstructure:"origin" validate:"omitempty,url"`
}

// QuizConfig tunes the quiz screen.
type QuizConfig struct {
	AutoAdvance time.Duration `mapstructure:"auto_advance" validate:"gte=0"`
}

// SpeechConfig selects the text-to-speech engine.
type SpeechConfig struct {
	Command string  `mapstructure:"command"`
	Rate    float64 `mapstructure:"rate" validate:"gt=0,lte=4"`
	Enabled bool    `mapstructure:"enabled"`
}

// LogConfig controls the log sink. The TUI owns the terminal, so logs go
// to a file.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// ServeConfig configures the offline mirror.
type ServeConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// Options customizes Load.
type Options struct {
	// File is an explicit config file. When empty, config.yaml is looked up
	// in the working directory and $XDG_CONFIG_HOME/wordmax, and is optional.
	File string

	// Flags maps config keys to command-line flags that override them.
	Flags map[string]*pflag.Flag

	// SkipDotEnv disables loading .env from the working directory.
	SkipDotEnv bool
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("db", "")
	v.SetDefault("data.source", "data.json")
	v.SetDefault("data.file_name", assetcache.DefaultDataFile)
	v.SetDefault("cache.generation", assetcache.DefaultGeneration)
	v.SetDefault("cache.manifest", "")
	v.SetDefault("cache.origin", "")
	v.SetDefault("quiz.auto_advance", "380ms")
	v.SetDefault("speech.command", "")
	v.SetDefault("speech.rate", speech.DefaultRate)
	v.SetDefault("speech.enabled", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "30s")
	retry := llm.DefaultRetry()
	v.SetDefault("llm.retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", retry.Multiplier)
	v.SetDefault("serve.addr", "127.0.0.1:8765")
}

// Load reads configuration. Precedence, highest first: flags, environment,
// config file, defaults.
func Load(opts Options) (*Config, error) {
	if !opts.SkipDotEnv {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, f := range opts.Flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the LLM section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q %s", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "wordmax"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wordmax"), nil
}
