// Package browser manages the Chromium instance whose tabs are monitored:
// launch or connect via go-rod, open or reuse a tab per page, shut down.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"spottheai/internal/core"
)

// Manager owns one browser connection.
type Manager struct {
	config *core.BrowserConfig
	logger *zap.Logger

	mutex   sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a Manager. Call Start to launch or connect.
func NewManager(config *core.BrowserConfig, logger *zap.Logger) *Manager {
	return &Manager{config: config, logger: logger}
}

// Start launches a local browser, or connects to RemoteURL when set.
func (m *Manager) Start(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return nil
	}

	controlURL, err := m.controlURL()
	if err != nil {
		return err
	}

	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		m.cleanup()
		return fmt.Errorf("browser: connect: %w", err)
	}
	// Detach from the start context so the connection outlives it.
	m.browser = b.Context(context.Background())
	return nil
}

func (m *Manager) controlURL() (string, error) {
	if m.config.RemoteURL != "" {
		u, err := launcher.ResolveURL(m.config.RemoteURL)
		if err != nil {
			return "", fmt.Errorf("browser: resolve remote %s: %w", m.config.RemoteURL, err)
		}
		m.logger.Info("Connecting to remote browser", zap.String("url", u))
		return u, nil
	}

	l := launcher.New().
		Headless(m.config.Headless).
		// Hide navigator.webdriver.
		Set("disable-blink-features", "AutomationControlled")
	if m.config.UserDataDir != "" {
		l = l.UserDataDir(m.config.UserDataDir)
	}

	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("browser: launch: %w", err)
	}
	m.lnch = l
	m.logger.Info("Launched local browser",
		zap.String("url", u),
		zap.Bool("headless", m.config.Headless),
		zap.String("userDataDir", m.config.UserDataDir))
	return u, nil
}

// OpenPage returns a tab showing pageURL. An open tab on the same host is
// reused so an already logged-in player keeps playing; otherwise a new tab
// is opened and navigated.
func (m *Manager) OpenPage(ctx context.Context, pageURL string) (*rod.Page, error) {
	m.mutex.Lock()
	b := m.browser
	m.mutex.Unlock()
	if b == nil {
		return nil, fmt.Errorf("browser: not started")
	}

	pages, err := b.Pages()
	if err != nil {
		return nil, fmt.Errorf("browser: list tabs: %w", err)
	}
	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		if SameSite(info.URL, pageURL) {
			m.logger.Info("Reusing open tab", zap.String("url", info.URL))
			return page, nil
		}
	}

	var page *rod.Page
	if m.config.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx := ctx
	if m.config.NavTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, m.config.NavTimeout)
		defer cancel()
	}

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		m.logger.Warn("Page load wait failed", zap.String("url", pageURL), zap.Error(err))
	}

	m.logger.Info("Opened tab", zap.String("url", pageURL))
	return page, nil
}

// Close shuts down the browser. A remote browser is only disconnected.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	m.cleanup()
	return nil
}

func (m *Manager) cleanup() {
	if m.browser != nil {
		if m.lnch != nil {
			_ = m.browser.Close()
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}

// SameSite reports whether two URLs point at the same host.
func SameSite(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	host := strings.ToLower(ua.Hostname())
	return host != "" && host == strings.ToLower(ub.Hostname())
}
