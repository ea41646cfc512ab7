// Package config loads tokenlogo settings from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the TOML file, then
// environment variables. Secrets (the fal.ai key, database URIs) are
// usually supplied through the environment.
//
//	[server]
//	addr = ":8080"
//	write_timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[banner]
//	max_per_run = 5
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvFalKey     = "FAL_KEY"
	EnvRedisAddr  = "TOKENLOGO_REDIS_ADDR"
	EnvMongoURI   = "TOKENLOGO_MONGO_URI"
	EnvAddr       = "TOKENLOGO_ADDR"
	EnvCacheDir   = "TOKENLOGO_CACHE_DIR"
	EnvNamespace  = "TOKENLOGO_NAMESPACE"
	EnvMaxPerRun  = "TOKENLOGO_BANNERS_PER_RUN"
	EnvConfigPath = "TOKENLOGO_CONFIG"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration that decodes from strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Banner BannerConfig `toml:"banner"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects and configures the output cache.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, redis or none
	Dir           string `toml:"dir"`     // file backend; empty means the user cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	Namespace     string `toml:"namespace"` // scopes keys, e.g. "base:" vs "base-sepolia:"
}

// StoreConfig configures optional persistence. An empty MongoURI disables it.
type StoreConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// BannerConfig configures banner generation. An empty FalKey disables it.
type BannerConfig struct {
	FalKey        string   `toml:"fal_key"`
	MaxPerRun     int      `toml:"max_per_run"`
	Timeout       Duration `toml:"timeout"`
	LLMEndpoint   string   `toml:"llm_endpoint"`
	ImageEndpoint string   `toml:"image_endpoint"`
	Model         string   `toml:"model"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Prefix:  "tokenlogo:",
		},
		Store: StoreConfig{
			Database:   "tokenlogo",
			Collection: "logos",
		},
		Banner: BannerConfig{
			MaxPerRun: 5,
			Timeout:   Duration{60 * time.Second},
		},
	}
}

// Load reads path over the defaults, applies the environment and validates.
// An empty path skips the file. Unknown keys in the file are rejected so
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from environment variables. Setting
// TOKENLOGO_REDIS_ADDR also switches the cache backend to redis.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvFalKey); ok && v != "" {
		c.Banner.FalKey = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Store.MongoURI = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.Cache.Dir = v
	}
	if v, ok := lookup(EnvNamespace); ok && v != "" {
		c.Cache.Namespace = v
	}
	if v, ok := lookup(EnvMaxPerRun); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Banner.MaxPerRun = n
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.RedisDB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_db cannot be negative")
	}
	if c.Banner.MaxPerRun < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "banner.max_per_run must be at least 1")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	for name, d := range map[string]Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"banner.timeout":          c.Banner.Timeout,
	} {
		if d.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s cannot be negative", name)
		}
	}
	if c.Banner.LLMEndpoint != "" {
		if err := errors.ValidateURL(c.Banner.LLMEndpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "banner.llm_endpoint")
		}
	}
	if c.Banner.ImageEndpoint != "" {
		if err := errors.ValidateURL(c.Banner.ImageEndpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "banner.image_endpoint")
		}
	}
	return nil
}

// BannersEnabled reports whether a fal.ai key is configured.
func (c *Config) BannersEnabled() bool { return c.Banner.FalKey != "" }

// PersistenceEnabled reports whether a MongoDB URI is configured.
func (c *Config) PersistenceEnabled() bool { return c.Store.MongoURI != "" }
