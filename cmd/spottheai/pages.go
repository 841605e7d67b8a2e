package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"spottheai/internal/browser"
	"spottheai/internal/core"
	"spottheai/internal/dom"
	"spottheai/internal/i18n"
	"spottheai/internal/notify"
	"spottheai/internal/observer"
	"spottheai/internal/playback"
	"spottheai/internal/site"
	"spottheai/internal/spotify"
)

// pageBuilder wires one Monitor per page URL.
type pageBuilder struct {
	registry  *site.Registry
	browser   *browser.Manager
	oracle    core.BlacklistOracle
	spotify   *spotify.Client
	metrics   core.MetricsRecorder
	localizer *i18n.Localizer
	names     map[string]int
}

func (b *pageBuilder) build(ctx context.Context, pageURL string) (*core.Monitor, error) {
	profile, err := b.registry.Match(pageURL)
	if err != nil {
		return nil, err
	}

	name := b.pageName(profile.Name)
	pageLogger := logger.Named("page").With(zap.String("page", name), zap.String("site", profile.Name))

	page, err := b.browser.OpenPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", pageURL, err)
	}
	doc := dom.NewRodDocument(page)

	var extra []observer.Strategy
	var controllers []core.PlaybackController
	if b.spotify != nil && profile.Name == site.SpotifyProfile {
		extra = append(extra, observer.NowPlayingStrategy("spotify-api", b.spotify))
		controllers = append(controllers, playback.NewAPIController(b.spotify))
	}
	controllers = append(controllers, playback.NewDOMController(profile, doc, pageLogger))

	obs, err := observer.ForProfile(profile, doc, pageLogger, extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to build observer for %s: %w", name, err)
	}

	notifiers := notify.Multi{notify.NewLogNotifier(pageLogger, b.localizer)}
	if !config.Monitor.DisableBanner {
		banner := notify.NewBannerNotifier(doc, profile.BannerColor, config.Monitor.BannerDuration, b.localizer)
		notifiers = append(notify.Multi{banner}, notifiers...)
	}

	pageLogger.Info("Monitoring page", zap.String("url", pageURL), zap.Int("controllers", len(controllers)))

	return core.NewMonitor(core.MonitorOptions{
		Name:         name,
		URL:          pageURL,
		Site:         profile.Name,
		Observer:     obs,
		Oracle:       b.oracle,
		Controller:   playback.NewChain(pageLogger, controllers...),
		Notifier:     notifiers,
		Metrics:      b.metrics,
		Logger:       pageLogger,
		PollInterval: config.Monitor.PollInterval,
		InitialDelay: config.Monitor.InitialDelay,
		Cooldown:     config.Monitor.Cooldown,
		CheckTimeout: config.Monitor.CheckTimeout,
	}), nil
}

// pageName returns the profile name, suffixed when the site is monitored more than once.
func (b *pageBuilder) pageName(profile string) string {
	b.names[profile]++
	if n := b.names[profile]; n > 1 {
		return fmt.Sprintf("%s-%d", profile, n)
	}
	return profile
}
