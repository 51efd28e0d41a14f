package main

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/config"
	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/inspiration"
	"github.com/danielpatrickdp/persona-forge/internal/logging"
	"github.com/danielpatrickdp/persona-forge/internal/metrics"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
	"github.com/danielpatrickdp/persona-forge/internal/session"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// errNoAPIKey is returned by commands that need the model when no key is
// configured.
var errNoAPIKey = errors.New("no Gemini API key: set llm.api_key in the config file or GEMINI_API_KEY")

// #region app
// app holds everything one CLI invocation works with.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     zerolog.Logger

	store   *state.Store
	stack   *history.Stack
	journal *logging.Journal
	persist *session.Persister
	tr      *i18n.Store
	rec     *metrics.PrometheusRecorder
	lib     *inspiration.Library

	mu     sync.Mutex
	client *gemini.Client
	engine *pipeline.Engine

	metricsSrv    *http.Server
	refreshCancel context.CancelFunc
	refreshDone   <-chan struct{}
}

// globalOpts are the persistent root flags.
type globalOpts struct {
	configPath string
	dbPath     string
	lang       string
	logLevel   string
}

func openApp(opts globalOpts) (*app, error) {
	cfgPath := opts.configPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Storage.DBPath = opts.dbPath
	}
	if opts.lang != "" {
		cfg.UI.Language = opts.lang
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	store, err := state.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log,
		store:   store,
		stack:   history.New(),
		rec:     metrics.NewPrometheusRecorder(),
	}

	a.journal = logging.NewJournal(store.DB(), uuid.NewString())
	a.persist = session.New(a.stack, store,
		session.WithJournal(a.journal),
		session.WithLogger(log.With().Str("component", "session").Logger()),
	)
	a.persist.Restore()
	a.persist.Start()

	a.tr = i18n.NewStore(store, cfg.Language(envLang()), i18n.WithLogger(log))
	if t, ok := i18n.ParseTheme(cfg.UI.Theme); ok && t != a.tr.Theme() {
		if err := a.tr.SetTheme(t); err != nil {
			log.Warn().Err(err).Msg("could not apply configured theme")
		}
	}

	a.lib = inspiration.New(store, lazyGateway{a},
		inspiration.WithCooldown(cfg.Inspiration.Cooldown),
		inspiration.WithLogger(log.With().Str("component", "inspiration").Logger()),
		inspiration.WithMetrics(a.rec),
	)

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return a, nil
}

// Close stops background work and flushes the store.
func (a *app) Close() error {
	if a.refreshCancel != nil {
		a.refreshCancel()
		<-a.refreshDone
	}
	a.persist.Stop()
	a.mu.Lock()
	if a.engine != nil {
		a.engine.Close()
	}
	a.mu.Unlock()
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
	return a.store.Close()
}

func envLang() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
// #endregion app

// #region gateway
// gemini connects on first use so commands that never call the model work
// without a key.
func (a *app) gemini(ctx context.Context) (*gemini.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	if a.cfg.LLM.APIKey == "" {
		return nil, errNoAPIKey
	}
	log := a.log.With().Str("component", "gemini").Logger()
	c, err := gemini.New(ctx, gemini.Config{
		APIKey:    a.cfg.LLM.APIKey,
		Model:     a.cfg.LLM.Model,
		WebSearch: a.cfg.LLM.WebSearch,
		Metrics:   a.rec,
		Logger:    &log,
	})
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// pipeline builds the engine on a gateway that connects on the first model
// call, so history-only actions work without a key.
func (a *app) pipeline() *pipeline.Engine {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		a.engine = pipeline.New(a.stack, lazyGateway{a}, a.tr,
			pipeline.WithLogger(a.log.With().Str("component", "pipeline").Logger()),
			pipeline.WithMetrics(a.rec),
		)
	}
	return a.engine
}

// llmContext bounds one model call by llm.timeout.
func (a *app) llmContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.LLM.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.cfg.LLM.Timeout)
}

// lazyGateway resolves the Gemini client per call. It serves both the
// pipeline engine and the inspiration library.
type lazyGateway struct {
	a *app
}

func (g lazyGateway) GenerateText(ctx context.Context, systemPrompt, userContent string, opts gemini.Options) (string, error) {
	c, err := g.a.gemini(ctx)
	if err != nil {
		return "", err
	}
	return c.GenerateText(ctx, systemPrompt, userContent, opts)
}

func (g lazyGateway) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	c, err := g.a.gemini(ctx)
	if err != nil {
		return err
	}
	return c.GenerateStructured(ctx, prompt, schema, out)
}

func (g lazyGateway) StartChat(systemPrompt string, opts gemini.Options, turns ...gemini.Turn) pipeline.ChatSession {
	return &lazyChat{a: g.a, system: systemPrompt, opts: opts, turns: turns}
}

// lazyChat opens the real chat on its first message.
type lazyChat struct {
	a      *app
	system string
	opts   gemini.Options
	turns  []gemini.Turn

	mu   sync.Mutex
	chat pipeline.ChatSession
}

func (l *lazyChat) session(ctx context.Context) (pipeline.ChatSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.chat != nil {
		return l.chat, nil
	}
	c, err := l.a.gemini(ctx)
	if err != nil {
		return nil, err
	}
	l.chat = pipeline.FromClient(c).StartChat(l.system, l.opts, l.turns...)
	return l.chat, nil
}

func (l *lazyChat) SendStream(ctx context.Context, message string) iter.Seq2[gemini.Chunk, error] {
	return func(yield func(gemini.Chunk, error) bool) {
		chat, err := l.session(ctx)
		if err != nil {
			yield(gemini.Chunk{}, err)
			return
		}
		for chunk, err := range chat.SendStream(ctx, message) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

func (l *lazyChat) Send(ctx context.Context, message string) (gemini.Chunk, error) {
	chat, err := l.session(ctx)
	if err != nil {
		return gemini.Chunk{}, err
	}
	return chat.Send(ctx, message)
}
// #endregion gateway

// #region background
// startRefresh refreshes a stale inspiration library in the background
// while an interactive command runs.
func (a *app) startRefresh(ctx context.Context) {
	if !a.cfg.Inspiration.AutoRefresh || a.cfg.LLM.APIKey == "" || a.refreshDone != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.refreshCancel = cancel
	a.refreshDone = a.lib.StartBackgroundRefresh(ctx, string(a.tr.Language()))
}

func (a *app) serveMetrics(addr string) {
	a.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           metricsMux(a.rec),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	a.log.Info().Str("addr", addr).Msg("serving /metrics")
}

func metricsMux(rec *metrics.PrometheusRecorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	return mux
}
// #endregion background
