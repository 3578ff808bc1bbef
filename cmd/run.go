package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/careerfit/internal/app"
	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/coach"
	"github.com/abhisek/careerfit/internal/config"
	"github.com/abhisek/careerfit/internal/llm"
	"github.com/abhisek/careerfit/internal/logger"
	"github.com/abhisek/careerfit/internal/metrics"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/store"
	"github.com/abhisek/careerfit/internal/wizard"
)

// session bundles everything one assessment run needs.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
	store   *store.Store // nil with the memory backend
	coach   *coach.Service
	ctrl    *wizard.Controller
	closers []func() error
}

// newSession opens storage, builds the optional coach, and restores any
// saved responses into a fresh controller.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c := loadedConfig()
	s := &session{cfg: c, metrics: metrics.New()}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	logOpts := logger.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
	if logOpts.File == "" {
		logOpts.File = filepath.Join(filepath.Dir(dbPath), "careerfit.log")
	}
	s.log, err = logger.ForTUI(logOpts)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error { _ = s.log.Sync(); return nil })

	var snaps responses.Snapshotter
	switch c.Storage.Backend {
	case config.BackendMemory:
		snaps = responses.NewMemorySnapshotter()
	default:
		st, err := store.Open(dbPath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
		s.closers = append(s.closers, st.Close)
		snaps = st.SnapshotRepo(c.Storage.KeepSnapshots)
	}

	if c.Storage.Backend == config.BackendRedis {
		rs, err := store.NewRedisSnapshots(ctx, store.RedisOptions{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			TTL:      c.Storage.Redis.TTL,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, rs.Close)
		snaps = rs
	}

	s.coach = s.buildCoach(ctx)

	opts := []wizard.Option{
		wizard.WithLogger(s.log),
		wizard.WithMetrics(s.metrics),
	}
	if s.store != nil {
		opts = append(opts, wizard.WithRecorder(recordTo(s.store.EventRepo())))
	}
	s.ctrl = wizard.New(catalog.Default(), snaps, opts...)
	s.ctrl.Restore(ctx)
	return s, nil
}

// recordTo appends completed runs to the history table.
func recordTo(repo *store.EventRepo) wizard.ResultRecorder {
	return func(ctx context.Context, c wizard.Completed) error {
		return repo.AppendAssessment(ctx, store.AssessmentEventData{
			RunID:       c.RunID,
			StartedAt:   c.StartedAt,
			CompletedAt: c.CompletedAt,
			Result:      c.Result,
			Responses:   c.Responses,
		})
	}
}

// buildCoach returns nil when the coach is disabled or no LLM provider is
// configured; the assessment works the same without it.
func (s *session) buildCoach(ctx context.Context) *coach.Service {
	if !s.cfg.Coach.Enabled {
		return nil
	}
	llmCfg, ok := llm.Discover(llmConfig(s.cfg.LLM))
	if !ok {
		s.log.Info("coach disabled: no LLM provider configured")
		return nil
	}

	opts := []llm.Option{llm.WithLogger(s.log)}
	if s.store != nil {
		opts = append(opts, llm.WithEventRecorder(s.store.EventRepo()))
	}
	provider, err := llm.New(ctx, llmCfg, opts...)
	if err != nil {
		s.log.Warn("coach disabled", zap.Error(err))
		return nil
	}
	return coach.NewService(provider, coach.Config{
		MaxTokens:   s.cfg.Coach.MaxTokens,
		Temperature: s.cfg.Coach.Temperature,
		Timeout:     s.cfg.Coach.Timeout,
	}, s.log)
}

// llmConfig overlays the file and environment settings on the provider
// defaults.
func llmConfig(c config.LLMConfig) llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.Provider
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	overlay(&out.Anthropic, c.Anthropic)
	overlay(&out.OpenAI, c.OpenAI)
	overlay(&out.Gemini, c.Gemini)
	overlay(&out.OpenRouter, c.OpenRouter)
	return out
}

func overlay(dst *llm.ProviderConfig, src config.ProviderConfig) {
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
}

// Close writes the metrics textfile and releases storage.
func (s *session) Close() {
	if s.log != nil {
		if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			s.log.Warn("write metrics", zap.Error(err))
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// runApp launches the TUI, or the line-mode quiz when plain is set.
func runApp(cmd *cobra.Command, plain bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if plain {
		return takePlain(cmd.Context(), s.ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	skipSplash, _ := cmd.Flags().GetBool("no-splash")
	opts := app.Options{
		Controller: s.ctrl,
		Coach:      s.coach,
		Logger:     s.log,
		SkipSplash: skipSplash,
	}
	if s.store != nil {
		opts.History = s.store.EventRepo()
	}
	return app.Run(opts)
}
