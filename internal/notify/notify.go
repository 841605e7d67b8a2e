// Package notify confirms skips to the listener.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"spottheai/internal/core"
	"spottheai/internal/dom"
	"spottheai/internal/i18n"
)

const (
	// BannerElementID identifies the banner so a new one replaces the old.
	BannerElementID = "spotai-notification"
	// DefaultBannerColor is used when the site profile sets none.
	DefaultBannerColor = "#1DB954"
)

const bannerScript = `(id, color, title, text, durationMs) => {
	const existing = document.getElementById(id);
	if (existing) existing.remove();

	const banner = document.createElement('div');
	banner.id = id;
	banner.style.cssText = [
		'position: fixed',
		'bottom: 120px',
		'left: 50%',
		'transform: translateX(-50%)',
		'background: ' + color,
		'color: white',
		'padding: 12px 24px',
		'border-radius: 8px',
		"font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif",
		'font-size: 14px',
		'z-index: 99999',
		'box-shadow: 0 4px 12px rgba(0,0,0,0.4)',
	].join('; ');

	const strong = document.createElement('strong');
	strong.textContent = title;
	banner.appendChild(strong);
	banner.appendChild(document.createTextNode(' ' + text));
	document.body.appendChild(banner);

	setTimeout(() => banner.remove(), durationMs);
}`

// BannerNotifier shows a transient banner inside the monitored page.
type BannerNotifier struct {
	runner    dom.ScriptRunner
	color     string
	duration  time.Duration
	localizer *i18n.Localizer
}

// NewBannerNotifier creates a banner notifier. An empty color falls back to
// DefaultBannerColor.
func NewBannerNotifier(runner dom.ScriptRunner, color string, duration time.Duration, localizer *i18n.Localizer) *BannerNotifier {
	if color == "" {
		color = DefaultBannerColor
	}
	if duration <= 0 {
		duration = core.DefaultBannerDurationMs * time.Millisecond
	}
	if localizer == nil {
		localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}
	return &BannerNotifier{runner: runner, color: color, duration: duration, localizer: localizer}
}

// NotifySkipped replaces any existing banner with one for snapshot.
func (n *BannerNotifier) NotifySkipped(ctx context.Context, snapshot core.TrackSnapshot, source string) error {
	title := n.localizer.T("banner.skipped", sourceLabel(n.localizer, source))
	text := n.localizer.T("banner.track", snapshot.Artist, snapshot.Track)

	if err := n.runner.RunScript(ctx, bannerScript, BannerElementID, n.color, title, text, n.duration.Milliseconds()); err != nil {
		return fmt.Errorf("show banner: %w", err)
	}
	return nil
}

// LogNotifier records skips in the log only.
type LogNotifier struct {
	logger    *zap.Logger
	localizer *i18n.Localizer
}

func NewLogNotifier(logger *zap.Logger, localizer *i18n.Localizer) *LogNotifier {
	if localizer == nil {
		localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}
	return &LogNotifier{logger: logger, localizer: localizer}
}

func (n *LogNotifier) NotifySkipped(_ context.Context, snapshot core.TrackSnapshot, source string) error {
	n.logger.Info(n.localizer.T("log.skipped", sourceLabel(n.localizer, source), snapshot.Artist, snapshot.Track),
		zap.String("artist", snapshot.Artist),
		zap.String("track", snapshot.Track),
		zap.String("source", source))
	return nil
}

// Multi shows every notifier in order and returns the first error.
type Multi []core.Notifier

func (m Multi) NotifySkipped(ctx context.Context, snapshot core.TrackSnapshot, source string) error {
	var firstErr error
	for _, n := range m {
		if err := n.NotifySkipped(ctx, snapshot, source); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func sourceLabel(localizer *i18n.Localizer, source string) string {
	if source == "" {
		return localizer.T("banner.unknown_source")
	}
	return source
}
