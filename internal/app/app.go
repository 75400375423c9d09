// Package app assembles the fetch pipeline and tool service from config.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/archive"
	"github.com/cre-scout/loopnet-mcp/internal/browser"
	"github.com/cre-scout/loopnet-mcp/internal/cache"
	"github.com/cre-scout/loopnet-mcp/internal/config"
	"github.com/cre-scout/loopnet-mcp/internal/fetch"
	"github.com/cre-scout/loopnet-mcp/internal/logging"
	"github.com/cre-scout/loopnet-mcp/internal/metrics"
	"github.com/cre-scout/loopnet-mcp/internal/ratelimit"
	"github.com/cre-scout/loopnet-mcp/internal/server"
)

// App holds the wired services for the lifetime of a command.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Client  *fetch.Client
	Service *server.Service

	archiveStore *archive.Store
}

// New builds the full pipeline: transport, browser escalation, cache, rate
// limiter, optional archive, and the MCP tool service.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	transport, err := fetch.NewCollyTransport(fetch.TransportConfig{
		Impersonate: cfg.HTTP.Impersonate,
		Timeout:     cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("init transport: %w", err)
	}

	var escalator fetch.Escalator
	if cfg.Browser.Enabled {
		escalator = browser.New(browser.Config{
			Headless:      cfg.Browser.Headless,
			NavTimeout:    cfg.BrowserNavTimeout(),
			ChallengeWait: cfg.ChallengeWait(),
		}, logger.Named("browser"))
	}

	client := fetch.New(
		fetch.Config{
			BaseURL:           cfg.Loopnet.BaseURL,
			MaxConcurrent:     cfg.HTTP.MaxConcurrentRequests,
			MaxRetries:        cfg.HTTP.MaxRetries,
			RetryForbidden:    cfg.HTTP.RetryForbidden,
			BackoffBase:       cfg.BackoffBase(),
			EscalationEnabled: cfg.Browser.Enabled,
		},
		transport,
		escalator,
		cache.New(cache.Config{TTL: cfg.CacheTTL(), MaxEntries: cfg.Cache.MaxEntries}),
		ratelimit.New(cfg.RequestDelay()),
		logger.Named("fetch"),
	)

	app := &App{
		Config: cfg,
		Logger: logger,
		Client: client,
	}

	if cfg.Archive.DSN != "" {
		var snapshots *archive.SnapshotStore
		if cfg.Archive.SnapshotDir != "" {
			snapshots, err = archive.NewSnapshotStore(cfg.Archive.SnapshotDir)
			if err != nil {
				client.Close()
				return nil, fmt.Errorf("init snapshot store: %w", err)
			}
		}
		store, err := archive.New(ctx, archive.Config{
			DSN:   cfg.Archive.DSN,
			Table: cfg.Archive.Table,
		}, snapshots, logger.Named("archive"))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("init archive store: %w", err)
		}
		client.SetArchiver(store)
		app.archiveStore = store
	}

	app.Service = server.NewService(client, cfg.Loopnet.BaseURL, logger.Named("mcp"))
	return app, nil
}

// Close releases the browser session, archive pool, and flushes logs.
func (a *App) Close() {
	if a.Client != nil {
		a.Client.Close()
	}
	if a.archiveStore != nil {
		a.archiveStore.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
