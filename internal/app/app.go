package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dblens/console/internal/config"
	"github.com/dblens/console/internal/dblens"
	"github.com/dblens/console/internal/logging"
	"github.com/dblens/console/internal/palette"
	"github.com/dblens/console/internal/prefs"
	"github.com/dblens/console/internal/state"
	"github.com/dblens/console/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/dblens/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Verbose    bool
	Version    string
}

// Run boots the console TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load dblens config: %w", err)
	}

	logger, err := logging.New(cfg.LogPath(), opts.Verbose)
	if err != nil {
		logger = logging.Nop()
	}
	defer func() { _ = logger.Sync() }()

	token, err := cfg.Token()
	if err != nil {
		return fmt.Errorf("load api token: %w", err)
	}

	clientOpts := []dblens.Option{dblens.WithOrgID(cfg.OrgID)}
	if opts.Version != "" {
		clientOpts = append(clientOpts, dblens.WithUserAgent("dblens-console/"+opts.Version))
	}
	client, err := dblens.NewClient(cfg.APIURL, cfg.APIPrefix, token, clientOpts...)
	if err != nil {
		return fmt.Errorf("init dblens client: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger.Info("console starting",
		zap.String("api", client.BaseURL()),
		zap.String("prefix", cfg.APIPrefix),
		zap.Bool("token", token != ""),
		zap.Int64("org_id", cfg.OrgID),
	)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &state.Store{}
	poller := NewPoller(store, client, interval, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefsChanges := make(chan prefs.Prefs, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error {
		loadCurrentUser(gctx, client, store, logger)
		return nil
	})
	g.Go(func() error {
		err := prefs.Watch(gctx, opts.PrefsPath, func(p prefs.Prefs) {
			select {
			case prefsChanges <- p:
			case <-gctx.Done():
			}
		})
		if err != nil {
			logger.Warn("prefs watch disabled", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:      gctx,
			Users:        client,
			AuditLogs:    client,
			Store:        store,
			Config:       &cfg,
			Catalog:      palette.DefaultCatalog(),
			Prefs:        userPrefs,
			PrefsPath:    opts.PrefsPath,
			PrefsChanges: prefsChanges,
			Refresh:      poller.RefreshNow,
			Logger:       logger,
			Version:      opts.Version,
		})
	})

	err = g.Wait()
	logger.Info("console stopped", zap.Error(err))
	return err
}

func loadCurrentUser(ctx context.Context, client *dblens.Client, store *state.Store, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	me, err := client.FetchMe(ctx)
	if err != nil {
		logger.Warn("fetch current user failed", zap.Error(err), zap.Bool("unauthorized", dblens.IsUnauthorized(err)))
		return
	}
	store.SetUser(me)
}
