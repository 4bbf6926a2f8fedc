package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/ytget/chroma-browser/internal/chroma"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "CHROMA_BROWSER"

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default values
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 8000
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatConsole
	DefaultLanguage  = "en"
	DefaultTextSize  = 13
)

// Bounds applied by the setters
const (
	MinTimeout  = time.Second
	MaxTimeout  = 10 * time.Minute
	MinPageSize = 1
	MaxPageSize = 10000
	MinTextSize = 8
	MaxTextSize = 32
)

// Settings holds the application configuration read from the environment.
// Nothing is persisted.
type Settings struct {
	Host      string        `envconfig:"HOST" default:"127.0.0.1"`
	Port      int           `envconfig:"PORT" default:"8000"`
	Tenant    string        `envconfig:"TENANT" default:"default_tenant"`
	Database  string        `envconfig:"DATABASE" default:"default_database"`
	Token     string        `envconfig:"TOKEN"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
	PageSize  int           `envconfig:"PAGE_SIZE" default:"300"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"console"`
	Language  string        `envconfig:"LANGUAGE" default:"en"`
	TextSize  float32       `envconfig:"TEXT_SIZE" default:"13"`
}

// Default returns the settings used when the environment sets nothing
func Default() *Settings {
	return &Settings{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Tenant:    chroma.DefaultTenant,
		Database:  chroma.DefaultDatabase,
		Timeout:   chroma.DefaultTimeout,
		PageSize:  chroma.DefaultPageSize,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Language:  DefaultLanguage,
		TextSize:  DefaultTextSize,
	}
}

// Load reads the CHROMA_BROWSER_* environment variables and normalizes
// out-of-range values
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) normalize() error {
	s.SetTimeout(s.Timeout)
	s.SetPageSize(s.PageSize)
	s.SetTextSize(s.TextSize)
	s.SetLanguage(s.Language)

	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	if s.LogFormat != LogFormatConsole && s.LogFormat != LogFormatJSON {
		return &chroma.ValidationError{Field: "log format", Value: s.LogFormat, Reason: "must be console or json"}
	}
	if s.Port < chroma.MinPort || s.Port > chroma.MaxPort {
		return &chroma.ValidationError{
			Field:  "port",
			Value:  strconv.Itoa(s.Port),
			Reason: fmt.Sprintf("must be between %d and %d", chroma.MinPort, chroma.MaxPort),
		}
	}
	return nil
}

// SetTimeout sets the per-request timeout
func (s *Settings) SetTimeout(timeout time.Duration) {
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	s.Timeout = timeout
}

// SetPageSize sets how many records are fetched per request
func (s *Settings) SetPageSize(size int) {
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	s.PageSize = size
}

// SetTextSize sets the base UI text size
func (s *Settings) SetTextSize(size float32) {
	if size < MinTextSize {
		size = MinTextSize
	}
	if size > MaxTextSize {
		size = MaxTextSize
	}
	s.TextSize = size
}

// SetLanguage sets the UI language, falling back to English for unknown codes
func (s *Settings) SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := LanguageOptions()[lang]; !ok {
		lang = DefaultLanguage
	}
	s.Language = lang
}

// LanguageOptions returns the supported UI languages
func LanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"de": "Deutsch",
		"ru": "Русский",
	}
}

// ClientOptions converts the settings into chroma client options
func (s *Settings) ClientOptions(logger *zap.Logger) chroma.Options {
	return chroma.Options{
		Tenant:   s.Tenant,
		Database: s.Database,
		Token:    s.Token,
		Timeout:  s.Timeout,
		PageSize: s.PageSize,
		Logger:   logger,
	}
}

// ParsePort parses the text of a port entry
func ParsePort(text string) (int, error) {
	text = strings.TrimSpace(text)
	port, err := strconv.Atoi(text)
	if err != nil {
		return 0, &chroma.ValidationError{Field: "port", Value: text, Reason: "must be a number"}
	}
	if port < chroma.MinPort || port > chroma.MaxPort {
		return 0, &chroma.ValidationError{
			Field:  "port",
			Value:  text,
			Reason: fmt.Sprintf("must be between %d and %d", chroma.MinPort, chroma.MaxPort),
		}
	}
	return port, nil
}
