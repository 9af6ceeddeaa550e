package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type factoryOptions struct {
	log      *slog.Logger
	recorder Recorder
	mock     *MockProvider
}

// Option configures NewProvider.
type Option func(*factoryOptions)

// WithLogger sets the logger used by the logging and retry layers.
func WithLogger(log *slog.Logger) Option {
	return func(o *factoryOptions) { o.log = log }
}

// WithRecorder persists every call.
func WithRecorder(rec Recorder) Option {
	return func(o *factoryOptions) { o.recorder = rec }
}

// WithMock supplies the provider returned for the "mock" provider name.
func WithMock(m *MockProvider) Option {
	return func(o *factoryOptions) { o.mock = m }
}

// NewProvider builds the configured vendor client wrapped as
// caller → timeout → retry → logging → vendor, so each attempt is logged
// and cfg.Timeout bounds a call including its retries.
func NewProvider(ctx context.Context, cfg Config, opts ...Option) (Provider, error) {
	var o factoryOptions
	for _, opt := range opts {
		opt(&o)
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
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		if o.mock != nil {
			base = o.mock
		} else {
			base = NewMockProvider()
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, o.log, o.recorder)
	return WithTimeout(WithRetry(logged, cfg.Retry, o.log), cfg.Timeout), nil
}

// WithTimeout bounds every Generate call on p by d. A non-positive d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, timeout: d}
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
