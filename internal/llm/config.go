package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig is the per-provider credential and model choice. BaseURL
// is optional and mostly useful for proxies and tests.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// selected returns the settings of the chosen provider.
func (c Config) selected() ProviderConfig {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGemini:
		return c.Gemini
	case ProviderOpenRouter:
		return c.OpenRouter
	}
	return ProviderConfig{}
}

// Validate reports a missing provider or API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return fmt.Errorf("no LLM provider configured")
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.selected().APIKey == "" {
			return fmt.Errorf("%s API key is required", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
}

// Discover fills in a provider from the vendors' usual environment
// variables when none is configured yet. The first key found wins, checked
// in the order Anthropic, OpenAI, Gemini, OpenRouter. It reports whether a
// usable provider is set afterwards.
func Discover(cfg Config) (Config, bool) {
	if cfg.Provider != "" {
		return cfg, cfg.Validate() == nil
	}
	probes := []struct {
		env      string
		provider string
		target   *ProviderConfig
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter},
	}
	for _, p := range probes {
		if p.target.APIKey != "" {
			cfg.Provider = p.provider
			return cfg, true
		}
		if k := os.Getenv(p.env); k != "" {
			p.target.APIKey = k
			cfg.Provider = p.provider
			return cfg, true
		}
	}
	return cfg, false
}

// resolveModel maps a short alias to a full model id. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
