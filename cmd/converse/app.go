package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"
	"mercator-hq/converse/pkg/security/secrets"
	"mercator-hq/converse/pkg/telemetry/health"
	"mercator-hq/converse/pkg/telemetry/logging"
	"mercator-hq/converse/pkg/telemetry/metrics"
	"mercator-hq/converse/pkg/telemetry/tracing"
	"mercator-hq/converse/pkg/transcript"
)

const (
	shutdownTimeout    = 5 * time.Second
	healthCheckTimeout = 5 * time.Second
)

// app holds the process-wide pieces shared by every conversation: the
// pooled HTTP client, credential sources, metrics and the transcript store.
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	httpClient *http.Client
	credential *secrets.Chain
	collector  *metrics.Collector
	health     *health.Checker
	tracer     *tracing.Tracer

	// nil when transcripts are disabled
	store     *transcript.SQLiteStore
	recorder  *transcript.Recorder
	scheduler *transcript.Scheduler

	metricsServer *http.Server
	metricsAddr   string

	closeOnce sync.Once
}

// newApp wires the configured components. Background work (pruning, the
// metrics listener) stops when ctx is done or close is called.
func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*app, error) {
	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:             cfg.Client.Timeout,
		MaxIdleConns:        cfg.Client.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Client.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Client.IdleConnTimeout,
	})

	a := &app{
		cfg:        cfg,
		logger:     logger,
		httpClient: httpClient,
		collector:  metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}

	if err := a.initCredentials(); err != nil {
		a.close()
		return nil, err
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracer = tracer

	if cfg.Transcript.Enabled {
		if err := a.initTranscript(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	a.initHealth()

	if cfg.Telemetry.Metrics.Enabled {
		if err := a.startMetricsServer(); err != nil {
			a.close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) initCredentials() error {
	var file secrets.Provider
	if a.cfg.Credentials.File != "" {
		fp, err := secrets.NewFileProvider(a.cfg.Credentials.File, a.cfg.Credentials.Watch)
		if err != nil {
			return fmt.Errorf("failed to open credential file: %w", err)
		}
		file = fp
	}

	a.credential = secrets.NewChain(file, secrets.NewEnvProvider(""))
	return nil
}

func (a *app) initTranscript(ctx context.Context) error {
	storeConfig := transcript.DefaultSQLiteConfig()
	storeConfig.Path = a.cfg.Transcript.Path

	store, err := transcript.NewSQLiteStore(storeConfig)
	if err != nil {
		return fmt.Errorf("failed to open transcript store: %w", err)
	}
	a.store = store

	a.recorder = transcript.NewRecorder(store).
		WithMetrics(a.collector).
		WithLogger(a.logger.Slog())

	pruner := transcript.NewPruner(store, &transcript.RetentionConfig{
		RetentionDays: a.cfg.Transcript.RetentionDays,
		PruneSchedule: a.cfg.Transcript.PruneSchedule,
	}).WithMetrics(a.collector)

	a.scheduler = transcript.NewScheduler(pruner)
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transcript pruning: %w", err)
	}

	return nil
}

// initHealth registers a readiness check for each external dependency of
// a conversation.
func (a *app) initHealth() {
	a.health = health.New(healthCheckTimeout)

	a.health.RegisterCheck("credential", func(ctx context.Context) error {
		_, source, err := a.credential.Resolve(ctx, a.cfg.Credentials.EnvVar)
		if err != nil {
			return err
		}
		a.logger.DebugContext(ctx, "credential resolved", "source", source)
		return nil
	})

	a.health.RegisterCheck("endpoint", a.checkEndpoint)

	a.health.RegisterCheck("transcript", func(ctx context.Context) error {
		if a.store == nil {
			return health.ErrDisabled
		}
		return a.store.Ping(ctx)
	})
}

// checkEndpoint verifies the completions endpoint answers HTTP. Any
// response below 500 counts; an unauthenticated GET is normally refused
// with 401 or 405.
func (a *app) checkEndpoint(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.Client.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (a *app) startMetricsServer() error {
	cfg := a.cfg.Telemetry.Metrics

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, a.collector.Handler())
	mux.Handle(config.HealthPath, a.health.Handler())

	a.metricsAddr = ln.Addr().String()
	a.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics listener failed", "error", err)
		}
	}()

	a.logger.Debug("metrics listener started",
		"address", a.metricsAddr,
		"path", cfg.Path,
	)

	return nil
}

// newClient creates a conversation client with the configured model,
// endpoint, history limit and system prompts. The credential is loaded
// separately by refreshCredential.
func (a *app) newClient() *conversation.Client {
	observers := conversation.Observers{a.collector}
	if a.tracer.Enabled() {
		observers = append(observers, a.tracer.Observer())
	}
	if a.recorder != nil {
		observers = append(observers, a.recorder)
	}

	client := conversation.New("", a.httpClient).
		SetEndpoint(a.cfg.Client.Endpoint).
		SetModel(a.cfg.Client.Model).
		SetHistoryLimit(a.cfg.Client.HistoryLimit).
		SetLogger(a.logger.Slog()).
		SetObserver(observers)

	for _, prompt := range a.cfg.Prompts.System {
		client.PushSystemMessage(prompt)
	}

	return client
}

// refreshCredential re-reads the API credential and installs it on client.
// It runs before every completion so a rotated key is picked up without
// restarting the session.
func (a *app) refreshCredential(ctx context.Context, client *conversation.Client) error {
	value, source, err := a.credential.Resolve(ctx, a.cfg.Credentials.EnvVar)
	if source == "" {
		source = "none"
	}
	a.collector.RecordCredentialLoad(source, err)

	if err != nil {
		return fmt.Errorf("failed to load API credential: %w", err)
	}

	client.SetCredential(value)
	return nil
}

// resume replays a stored session into client.
func (a *app) resume(ctx context.Context, client *conversation.Client, sessionID string) (int, error) {
	if a.store == nil {
		return 0, cli.NewUsageError("--resume requires transcript.enabled in the configuration")
	}
	return transcript.Resume(ctx, a.store, client, sessionID)
}

// close releases every component. It is safe to call more than once and
// on a partially initialized app.
func (a *app) close() {
	a.closeOnce.Do(a.shutdown)
}

func (a *app) shutdown() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics listener shutdown failed", "error", err)
		}
		cancel()
	}

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("failed to flush traces", "error", err)
		}
		cancel()
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close transcript store", "error", err)
		}
	}

	if a.credential != nil {
		if err := a.credential.Close(); err != nil {
			a.logger.Warn("failed to close credential sources", "error", err)
		}
	}

	a.httpClient.CloseIdleConnections()
}
