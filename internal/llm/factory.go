package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Option customizes New.
type Option func(*options)

type options struct {
	recorder EventRecorder
	log      *zap.Logger
}

// WithEventRecorder stores every call through rec.
func WithEventRecorder(rec EventRecorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithLogger sets the logger used by the middleware.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New builds the configured provider wrapped as
// timeout → retry → recording → provider.
func New(ctx context.Context, cfg Config, opts ...Option) (Provider, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	p := WithRecording(base, cfg.Provider, o.recorder, o.log)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
