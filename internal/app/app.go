package app

import (
	"context"
	"fmt"
	"io"

	"github.com/five82/shutter/internal/catalog"
	"github.com/five82/shutter/internal/config"
	"github.com/five82/shutter/internal/gallery"
	"github.com/five82/shutter/internal/logging"
	"github.com/five82/shutter/internal/prefs"
	"github.com/five82/shutter/internal/ui"
)

// Options configure the shutter application.
type Options struct {
	ConfigPath string
	EnvPath    string // empty uses ./.env
	PrefsPath  string // empty uses ~/.config/shutter/prefs.toml
}

// Run boots the shutter TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	uiOpts, closer, err := build(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log: %w", cerr)
		}
	}()

	uiOpts.Logger.Info().Msg("starting ui")
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	uiOpts.Logger.Info().Msg("ui exited")
	return nil
}

// build loads configuration and wires the catalog client, gallery controller
// and preferences into UI options. The closer releases the log file.
func build(ctx context.Context, opts Options) (ui.Options, io.Closer, error) {
	if err := config.LoadDotEnv(opts.EnvPath); err != nil {
		return ui.Options{}, nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ui.Options{}, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := logging.New(logging.Config{
		FilePath: cfg.LogFile,
		Level:    cfg.LogLevel,
	})
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("open log: %w", err)
	}
	logger.Info().
		Str("api_url", cfg.APIURL).
		Int("page_size", cfg.PageSize).
		Dur("timeout", cfg.RequestTimeout).
		Msg("config loaded")

	clientLog := logging.Component(logger, "catalog")
	client, err := catalog.NewClient(catalog.Options{
		BaseURL:   cfg.APIURL,
		AccessKey: cfg.AccessKey,
		Timeout:   cfg.RequestTimeout,
		Logger:    &clientLog,
	})
	if err != nil {
		_ = closer.Close()
		return ui.Options{}, nil, fmt.Errorf("init catalog client: %w", err)
	}

	galleryLog := logging.Component(logger, "gallery")
	ctrl := gallery.New(client, gallery.Options{
		PageSize: cfg.PageSize,
		Logger:   &galleryLog,
	})

	uiLog := logging.Component(logger, "ui")
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		uiLog.Warn().Err(err).Msg("using default prefs")
	}

	return ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Logger:     &uiLog,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		LogPath:    cfg.LogFile,
	}, closer, nil
}
