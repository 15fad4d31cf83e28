// Package config loads process settings for the canvass binaries.
//
// Values come from, in increasing priority: built-in defaults, a .env file,
// the process environment (CANVASS_* variables) and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/persistence/middleware"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// EnvPrefix is stripped from environment variables before decoding, so
// CANVASS_REDIS_URL fills the "redis_url" key.
const EnvPrefix = "CANVASS_"

// Sink kinds.
const (
	SinkMemory = "memory"
	SinkFile   = "file"
	SinkHTTP   = "http"
	SinkRedis  = "redis"
	SinkMongo  = "mongo"
)

// Session store kinds used by the servers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the flat set of process settings.
type Config struct {
	Catalog  string `mapstructure:"catalog"`
	Variant  string `mapstructure:"variant"`
	Source   string `mapstructure:"source"`
	Greeting string `mapstructure:"greeting"`

	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`

	Sink            string   `mapstructure:"sink"`
	RecordsDir      string   `mapstructure:"records_dir"`
	CollectorURL    string   `mapstructure:"collector_url"`
	CollectorToken  string   `mapstructure:"collector_token"`
	MongoURI        string   `mapstructure:"mongo_uri"`
	MongoDatabase   string   `mapstructure:"mongo_database"`
	MongoCollection string   `mapstructure:"mongo_collection"`
	MaskPII         bool     `mapstructure:"mask_pii"`
	PIIFields       []string `mapstructure:"pii_fields"`

	Store         string        `mapstructure:"store"`
	SessionsDir   string        `mapstructure:"sessions_dir"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	EncryptionKey string        `mapstructure:"encryption_key"`

	RedisURL    string `mapstructure:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix"`

	Addr        string        `mapstructure:"addr"`
	TypingDelay time.Duration `mapstructure:"typing_delay"`

	// Read by the runner's sanitizer straight from the environment.
	MaxInputSize int `mapstructure:"max_input_size"`

	// Unknown lists keys that matched no setting, typically typos.
	Unknown []string `mapstructure:"-"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Variant:     string(domain.VariantChat),
		LogLevel:    "info",
		Sink:        SinkFile,
		Store:       StoreMemory,
		SessionTTL:  24 * time.Hour,
		Addr:        ":8080",
		TypingDelay: 400 * time.Millisecond,
	}
}

// LoadDotEnv loads the given files (".env" when none) into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the .env files and then the process environment.
func Load(files ...string) (Config, error) {
	if err := LoadDotEnv(files...); err != nil {
		return Config{}, err
	}
	return FromEnv(os.Environ())
}

// FromEnv decodes CANVASS_* entries of environ (KEY=value pairs) over the defaults.
func FromEnv(environ []string) (Config, error) {
	values := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) || value == "" {
			continue
		}
		values[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))] = value
	}

	cfg := Default()
	if err := cfg.Merge(values); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Merge decodes values, keyed by setting name, over c. Strings are converted
// to the field type: durations use time.ParseDuration syntax and lists are
// comma separated.
func (c *Config) Merge(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	input := make(map[string]any, len(values))
	for k, v := range values {
		input[k] = v
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.Unknown = append(c.Unknown, md.Unused...)
	sort.Strings(c.Unknown)
	return nil
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	if !domain.Variant(c.Variant).Valid() {
		return fmt.Errorf("unknown variant %q (chat, wizard, form, assistant)", c.Variant)
	}

	switch c.Sink {
	case SinkMemory, SinkFile:
	case SinkHTTP:
		if c.CollectorURL == "" {
			return errors.New("sink http requires collector_url")
		}
	case SinkRedis:
		if c.RedisURL == "" {
			return errors.New("sink redis requires redis_url")
		}
	case SinkMongo:
		if c.MongoURI == "" {
			return errors.New("sink mongo requires mongo_uri")
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}

	switch c.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("store redis requires redis_url")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if c.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.EncryptionKey); err != nil {
			return fmt.Errorf("invalid encryption_key: %w", err)
		}
	}
	if c.MaxInputSize < 0 {
		return errors.New("max_input_size must not be negative")
	}
	return nil
}
