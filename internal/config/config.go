package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Coach   CoachConfig   `mapstructure:"coach"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Update  UpdateConfig  `mapstructure:"update"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type StorageConfig struct {
	Backend       string      `mapstructure:"backend"`
	DBPath        string      `mapstructure:"db_path"`
	KeepSnapshots int         `mapstructure:"keep_snapshots"`
	Redis         RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format on exit.
	Textfile string `mapstructure:"textfile"`
}

type CoachConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

type LLMConfig struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// UpdateConfig locates careerfit releases. Checksums may contain {version},
// replaced by the release version without its "v" prefix.
type UpdateConfig struct {
	Repository  string        `mapstructure:"repository"`
	APIURL      string        `mapstructure:"api_url"`
	DownloadURL string        `mapstructure:"download_url"`
	Checksums   string        `mapstructure:"checksums"`
	Timeout     time.Duration `mapstructure:"timeout"`
}
