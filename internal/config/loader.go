package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, so log.level is
// read from CAREERFIT_LOG_LEVEL.
const EnvPrefix = "CAREERFIT"

// Release defaults for the update command.
const (
	DefaultRepository = "abhisek/careerfit"
	DefaultChecksums  = "careerfit_{version}_checksums.txt"
)

// Load reads configuration from, in increasing precedence: defaults, the
// YAML file at path (or the default search locations when path is empty),
// a .env file in the working directory, and the environment.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{Coach: CoachConfig{Enabled: true, Temperature: 0.4}}
	applyDefaults(cfg)
	return cfg
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "careerfit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "careerfit")
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.keep_snapshots", 5)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.ttl", "720h")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("coach.enabled", true)
	v.SetDefault("coach.timeout", "45s")
	v.SetDefault("coach.max_tokens", 768)
	v.SetDefault("coach.temperature", 0.4)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("update.repository", DefaultRepository)
	v.SetDefault("update.api_url", "https://api.github.com")
	v.SetDefault("update.download_url", "https://github.com")
	v.SetDefault("update.checksums", DefaultChecksums)
	v.SetDefault("update.timeout", "2m")
	for _, p := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base_url", "")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.KeepSnapshots == 0 {
		cfg.Storage.KeepSnapshots = 5
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "localhost:6379"
	}
	if cfg.Storage.Redis.TTL == 0 {
		cfg.Storage.Redis.TTL = 30 * 24 * time.Hour
	}
	if cfg.Coach.Timeout == 0 {
		cfg.Coach.Timeout = 45 * time.Second
	}
	if cfg.Coach.MaxTokens == 0 {
		cfg.Coach.MaxTokens = 768
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.Update.Repository == "" {
		cfg.Update.Repository = DefaultRepository
	}
	if cfg.Update.APIURL == "" {
		cfg.Update.APIURL = "https://api.github.com"
	}
	if cfg.Update.DownloadURL == "" {
		cfg.Update.DownloadURL = "https://github.com"
	}
	if cfg.Update.Checksums == "" {
		cfg.Update.Checksums = DefaultChecksums
	}
	if cfg.Update.Timeout == 0 {
		cfg.Update.Timeout = 2 * time.Minute
	}
}

// Validate checks field values that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be sqlite, redis or memory, got %q", c.Storage.Backend))
	}
	if c.Storage.KeepSnapshots < 1 {
		errs = append(errs, fmt.Errorf("storage.keep_snapshots must be at least 1"))
	}
	if c.Coach.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("coach.max_tokens must not be negative"))
	}
	if c.Coach.Temperature < 0 || c.Coach.Temperature > 2 {
		errs = append(errs, fmt.Errorf("coach.temperature must be between 0 and 2"))
	}
	switch c.LLM.Provider {
	case "", "anthropic", "openai", "gemini", "openrouter", "mock":
	default:
		errs = append(errs, fmt.Errorf("unknown llm.provider %q", c.LLM.Provider))
	}
	if owner, repo, ok := strings.Cut(c.Update.Repository, "/"); !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		errs = append(errs, fmt.Errorf("update.repository must be owner/name, got %q", c.Update.Repository))
	}
	return errors.Join(errs...)
}
