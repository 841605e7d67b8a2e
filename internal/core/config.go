package core

import (
	"time"
)

const (
	// DefaultPollIntervalMs is how often the gatekeeper samples the page
	DefaultPollIntervalMs = 5000
	// DefaultInitialDelayMs delays the first check after start
	DefaultInitialDelayMs = 1000
	// DefaultCooldownMs is the suppression window after a skip action
	DefaultCooldownMs = 1500
	// DefaultBannerDurationMs is how long the skip banner stays on the page
	DefaultBannerDurationMs = 3000
	// DefaultOracleCheckTimeoutMs bounds a single blacklist check
	DefaultOracleCheckTimeoutMs = 4000
	// DefaultOracleRetries is the retry count of the HTTP oracle
	DefaultOracleRetries = 2
	// DefaultOracleCacheSize is the number of cached verdicts
	DefaultOracleCacheSize = 2048
	// DefaultOracleCacheTTLSecs is how long a cached verdict stays valid
	DefaultOracleCacheTTLSecs = 600
	// DefaultServerPort is the HTTP port for health, metrics and the page API
	DefaultServerPort = 8080
	// DefaultSkipLimitPerMinute bounds manual skip requests per page and client
	DefaultSkipLimitPerMinute = 6
	// DefaultLanguage is the banner language
	DefaultLanguage = "en"
)

const (
	OracleBackendHTTP   = "http"
	OracleBackendList   = "list"
	OracleBackendSQLite = "sqlite"
)

type Config struct {
	Monitor MonitorConfig
	Browser BrowserConfig
	Oracle  OracleConfig
	Spotify SpotifyConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type MonitorConfig struct {
	Pages             []string
	PollInterval      time.Duration
	InitialDelay      time.Duration
	Cooldown          time.Duration
	BannerDuration    time.Duration
	CheckTimeout      time.Duration
	SitesFile         string
	DisableBanner     bool
	DisableSpotifyAPI bool
}

type BrowserConfig struct {
	RemoteURL   string
	Headless    bool
	UserDataDir string
	Stealth     bool
	NavTimeout  time.Duration
}

type OracleConfig struct {
	Backends  []string
	URL       string
	Retries   int
	ListFiles []string
	DBPath    string
	CacheSize int
	CacheTTL  time.Duration
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string
}

// Enabled returns true if Spotify Web API credentials are configured
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	SkipLimitPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type AppConfig struct {
	Language string
}

func DefaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{
			PollInterval:   DefaultPollIntervalMs * time.Millisecond,
			InitialDelay:   DefaultInitialDelayMs * time.Millisecond,
			Cooldown:       DefaultCooldownMs * time.Millisecond,
			BannerDuration: DefaultBannerDurationMs * time.Millisecond,
			CheckTimeout:   DefaultOracleCheckTimeoutMs * time.Millisecond,
		},
		Browser: BrowserConfig{
			Headless:   false,
			Stealth:    true,
			NavTimeout: 30 * time.Second,
		},
		Oracle: OracleConfig{
			Backends:  []string{OracleBackendList},
			Retries:   DefaultOracleRetries,
			CacheSize: DefaultOracleCacheSize,
			CacheTTL:  DefaultOracleCacheTTLSecs * time.Second,
		},
		Spotify: SpotifyConfig{
			RedirectURL: "http://127.0.0.1:8080/callback",
			TokenPath:   "./spotify_token.json",
		},
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               DefaultServerPort,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			SkipLimitPerMinute: DefaultSkipLimitPerMinute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language: DefaultLanguage,
		},
	}
}
