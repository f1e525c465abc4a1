// Package config loads the settings shared by the coderunner binaries from,
// in increasing precedence: defaults, an optional config file, a .env file,
// the process environment, and explicit overrides such as CLI flags.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hamzaessahbaoui/coderunner-toolkit/pkg/tools/coderunner"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// CODE_RUNNER_BASE_URL.
const EnvPrefix = "CODE_RUNNER"

// Keys accepted in config files and overrides.
const (
	KeyBaseURL         = "base_url"
	KeyTimeout         = "timeout"
	KeyLogLevel        = "log_level"
	KeyAnthropicAPIKey = "anthropic_api_key"
)

// Config is the resolved process configuration.
type Config struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
	LogLevel        string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
}

// Runtime returns the per-call settings for the dispatcher.
func (c Config) Runtime() coderunner.RuntimeConfig {
	return coderunner.RuntimeConfig{BaseURL: strings.TrimRight(c.BaseURL, "/")}
}

// HTTPClient returns the client backend calls go through. A zero Timeout
// leaves requests bounded only by the caller's context.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.Timeout}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	viper     *viper.Viper
	file      string
	dotenv    []string
	overrides map[string]any
}

// WithFile reads settings from path. The format follows the extension
// (yaml, json, toml, ...). A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithDotEnv replaces the default ".env" with the given files. Missing
// files are skipped.
func WithDotEnv(paths ...string) Option {
	return func(l *loader) {
		l.dotenv = paths
	}
}

// WithOverride sets key to value with the highest precedence. Empty strings
// and nil values are ignored so unset flags do not mask the environment.
func WithOverride(key string, value any) Option {
	return func(l *loader) {
		if value == nil {
			return
		}
		if s, ok := value.(string); ok && s == "" {
			return
		}
		l.overrides[key] = value
	}
}

// WithViper sets a custom viper instance.
func WithViper(v *viper.Viper) Option {
	return func(l *loader) {
		if v != nil {
			l.viper = v
		}
	}
}

// Load resolves and validates the configuration.
func Load(opts ...Option) (Config, error) {
	l := &loader{
		viper:     viper.New(),
		dotenv:    []string{".env"},
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := loadDotEnv(l.dotenv); err != nil {
		return Config{}, err
	}

	v := l.viper
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAnthropicAPIKey, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAnthropicAPIKey, "ANTHROPIC_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("config: bind env: %w", err)
	}

	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.file, err)
		}
	}

	for k, val := range l.overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks cfg and reports every failing field in one error.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: validate: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}
