// Package main provides the spottheai CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"spottheai/internal/browser"
	"spottheai/internal/core"
	httpserver "spottheai/internal/http"
	"spottheai/internal/i18n"
	"spottheai/internal/oracle"
	"spottheai/internal/site"
	"spottheai/internal/spotify"
)

const (
	envPrefix         = "SPOTTHEAI"
	defaultServerHost = "127.0.0.1"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spottheai",
	Short: "spottheai - skip AI-generated artists in web music players",
	Long: `spottheai watches Spotify, Deezer and YouTube Music web player tabs, checks every
newly playing artist against a blacklist of AI-generated artists and skips the track
when the artist is blocked.`,
	RunE:          runSpotTheAI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "Also write logs to this file, rotated by size")

	flags.StringSlice("pages", nil, "Comma separated web player URLs to monitor")
	flags.Int("poll-interval-ms", core.DefaultPollIntervalMs, "How often each page is sampled in milliseconds")
	flags.Int("initial-delay-ms", core.DefaultInitialDelayMs, "Delay before the first check in milliseconds")
	flags.Int("cooldown-ms", core.DefaultCooldownMs, "Suppression window after a skip in milliseconds")
	flags.Int("banner-duration-ms", core.DefaultBannerDurationMs, "How long the skip banner stays visible in milliseconds")
	flags.Bool("disable-banner", false, "Log skips instead of showing a banner on the page")
	flags.String("sites-file", "", "YAML file overriding or extending the built-in site profiles")

	flags.StringSlice("oracle-backend", []string{core.OracleBackendList},
		"Blacklist backends (http, list, sqlite); several are chained in order")
	flags.String("oracle-url", "", "Base URL of the remote blacklist service")
	flags.Int("oracle-retries", core.DefaultOracleRetries, "Retries of the remote blacklist service on server errors")
	flags.Int("oracle-check-timeout-ms", core.DefaultOracleCheckTimeoutMs, "Timeout of one blacklist check in milliseconds")
	flags.StringSlice("blacklist-files", nil, "Blacklist files (text, YAML or JSON) for the list backend")
	flags.String("blacklist-db", "./blacklist.db", "SQLite database for the sqlite backend")
	flags.Int("oracle-cache-size", core.DefaultOracleCacheSize, "Number of cached verdicts")
	flags.Int("oracle-cache-ttl-secs", core.DefaultOracleCacheTTLSecs, "Lifetime of a cached verdict in seconds, 0 disables the cache")

	flags.String("browser-remote-url", "", "DevTools URL of an already running browser")
	flags.Bool("browser-headless", false, "Run the launched browser headless")
	flags.String("browser-user-data-dir", "", "Browser profile directory, reuses logged-in sessions")
	flags.Bool("browser-stealth", true, "Open new tabs in stealth mode")
	flags.Int("browser-nav-timeout-secs", 30, "Page navigation timeout in seconds")

	flags.String("spotify-client-id", "", "Spotify client ID (enables skipping through the Spotify Web API)")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("spotify-redirect-url", "", "Spotify OAuth redirect URL")
	flags.String("spotify-token-path", "./spotify_token.json", "Spotify token storage path")

	flags.String("server-host", defaultServerHost, "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	flags.Int("api-skip-limit-per-minute", core.DefaultSkipLimitPerMinute,
		"Manual skip requests allowed per page and client per minute, 0 disables the limit")

	supportedLangs := strings.Join(i18n.SupportedLanguages(), ", ")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Banner and status page language (%s)", supportedLangs))
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(inspectCmd, blacklistCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureMonitor(cfg)
	configureOracle(cfg)
	configureBrowser(cfg)
	configureServer(cfg)
	configureSpotify(cfg)
	configureApp(cfg)

	return cfg
}

func configureMonitor(cfg *core.Config) {
	cfg.Monitor.Pages = splitList(viper.GetStringSlice("pages"))
	cfg.Monitor.PollInterval = millis("poll-interval-ms", core.DefaultPollIntervalMs)
	cfg.Monitor.InitialDelay = millis("initial-delay-ms", core.DefaultInitialDelayMs)
	cfg.Monitor.Cooldown = millis("cooldown-ms", core.DefaultCooldownMs)
	cfg.Monitor.BannerDuration = millis("banner-duration-ms", core.DefaultBannerDurationMs)
	cfg.Monitor.CheckTimeout = millis("oracle-check-timeout-ms", core.DefaultOracleCheckTimeoutMs)
	cfg.Monitor.DisableBanner = viper.GetBool("disable-banner")
	cfg.Monitor.SitesFile = viper.GetString("sites-file")
}

func configureOracle(cfg *core.Config) {
	cfg.Oracle.Backends = splitList(viper.GetStringSlice("oracle-backend"))
	cfg.Oracle.URL = viper.GetString("oracle-url")
	cfg.Oracle.Retries = viper.GetInt("oracle-retries")
	cfg.Oracle.ListFiles = splitList(viper.GetStringSlice("blacklist-files"))
	cfg.Oracle.DBPath = viper.GetString("blacklist-db")
	cfg.Oracle.CacheSize = viper.GetInt("oracle-cache-size")
	if cfg.Oracle.CacheSize <= 0 {
		cfg.Oracle.CacheSize = core.DefaultOracleCacheSize
	}
	cfg.Oracle.CacheTTL = time.Duration(viper.GetInt("oracle-cache-ttl-secs")) * time.Second
}

func configureBrowser(cfg *core.Config) {
	cfg.Browser.RemoteURL = viper.GetString("browser-remote-url")
	cfg.Browser.Headless = viper.GetBool("browser-headless")
	cfg.Browser.UserDataDir = viper.GetString("browser-user-data-dir")
	cfg.Browser.Stealth = viper.GetBool("browser-stealth")
	if secs := viper.GetInt("browser-nav-timeout-secs"); secs > 0 {
		cfg.Browser.NavTimeout = time.Duration(secs) * time.Second
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.SkipLimitPerMinute = viper.GetInt("api-skip-limit-per-minute")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.File = viper.GetString("log-file")
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.Spotify.TokenPath = viper.GetString("spotify-token-path")
	if cfg.Spotify.TokenPath == "" {
		cfg.Spotify.TokenPath = "./spotify_token.json"
	}

	cfg.Spotify.RedirectURL = viper.GetString("spotify-redirect-url")
	if cfg.Spotify.RedirectURL == "" {
		serverHost := cfg.Server.Host
		if serverHost == "0.0.0.0" {
			serverHost = "127.0.0.1" // Use localhost for OAuth callback
		}
		cfg.Spotify.RedirectURL = fmt.Sprintf("http://%s:%d/callback", serverHost, cfg.Server.Port)
	}
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	lang, ok := i18n.ResolveLanguage(cfg.App.Language)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.SupportedLanguages(), ", "))
	}
	cfg.App.Language = lang
}

// millis reads a millisecond flag, falling back to def for non-positive values.
func millis(key string, def int) time.Duration {
	ms := viper.GetInt(key)
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// splitList flattens comma separated entries, as env values arrive as one string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func buildLogger(logConfig core.LogConfig) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(logConfig.Level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	var opts []zap.Option
	if logConfig.File != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(cfg.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logConfig.File,
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}),
			cfg.Level,
		)
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	builtLogger, err := cfg.Build(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runSpotTheAI(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting spottheai",
		zap.Strings("pages", config.Monitor.Pages),
		zap.Strings("oracle_backends", config.Oracle.Backends),
		zap.Bool("spotify_api", config.Spotify.Enabled()),
		zap.String("language", config.App.Language))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	svcs, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer svcs.close()

	return runServices(ctx, svcs)
}

type services struct {
	httpServer  *httpserver.Server
	browser     *browser.Manager
	oracle      core.BlacklistOracle
	closeOracle func() error
	monitors    []*core.Monitor
}

func (s *services) close() {
	if s.closeOracle != nil {
		if err := s.closeOracle(); err != nil {
			logger.Debug("Failed to close blacklist backends", zap.Error(err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logger.Debug("Failed to close browser", zap.Error(err))
		}
	}
}

func initializeServices(ctx context.Context) (*services, error) {
	registry, err := loadSites(config.Monitor.SitesFile)
	if err != nil {
		return nil, err
	}

	blacklist, closeOracle, err := oracle.Open(&config.Oracle, logger.Named("oracle"))
	if err != nil {
		return nil, fmt.Errorf("failed to open blacklist: %w", err)
	}

	svcs := &services{
		httpServer:  httpserver.NewServer(&config.Server, logger.Named("http")),
		browser:     browser.NewManager(&config.Browser, logger.Named("browser")),
		oracle:      blacklist,
		closeOracle: closeOracle,
	}
	localizer := i18n.NewLocalizer(config.App.Language)
	svcs.httpServer.SetLocalizer(localizer)

	spotifyClient, err := createSpotifyClient(ctx)
	if err != nil {
		svcs.close()
		return nil, err
	}

	if err := svcs.browser.Start(ctx); err != nil {
		svcs.close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	builder := &pageBuilder{
		registry:  registry,
		browser:   svcs.browser,
		oracle:    blacklist,
		spotify:   spotifyClient,
		metrics:   svcs.httpServer.GetMetrics(),
		localizer: localizer,
		names:     make(map[string]int),
	}
	for _, pageURL := range config.Monitor.Pages {
		monitor, err := builder.build(ctx, pageURL)
		if err != nil {
			svcs.close()
			return nil, err
		}
		svcs.monitors = append(svcs.monitors, monitor)
	}

	pages, err := core.NewPages(svcs.monitors...)
	if err != nil {
		svcs.close()
		return nil, err
	}
	svcs.httpServer.Attach(pages, blacklist)

	return svcs, nil
}

func loadSites(sitesFile string) (*site.Registry, error) {
	registry := site.NewRegistry()
	if sitesFile == "" {
		return registry, nil
	}
	if err := registry.LoadFile(sitesFile); err != nil {
		return nil, fmt.Errorf("failed to load site profiles: %w", err)
	}
	logger.Info("Loaded site profiles", zap.String("file", sitesFile), zap.Int("profiles", len(registry.Profiles())))
	return registry, nil
}

func createSpotifyClient(ctx context.Context) (*spotify.Client, error) {
	if !config.Spotify.Enabled() {
		return nil, nil
	}
	client := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	if err := client.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}
	return client, nil
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	for _, monitor := range svcs.monitors {
		g.Go(func() error {
			return monitor.Start(gCtx)
		})
	}

	logger.Info("spottheai started successfully",
		zap.Int("pages", len(svcs.monitors)),
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("spottheai stopped with error", zap.Error(err))
		return err
	}

	logger.Info("spottheai stopped gracefully")
	return nil
}

func validateConfig() error {
	if len(config.Monitor.Pages) == 0 {
		return fmt.Errorf("at least one page URL is required (--pages)")
	}
	return validateOracleConfig(&config.Oracle)
}

func validateOracleConfig(cfg *core.OracleConfig) error {
	if len(cfg.Backends) == 0 {
		return fmt.Errorf("at least one oracle backend is required")
	}
	for _, backend := range cfg.Backends {
		switch backend {
		case core.OracleBackendHTTP:
			if cfg.URL == "" {
				return fmt.Errorf("oracle URL is required for the http backend")
			}
		case core.OracleBackendList:
			if len(cfg.ListFiles) == 0 {
				return fmt.Errorf("blacklist files are required for the list backend")
			}
		case core.OracleBackendSQLite:
			if cfg.DBPath == "" {
				return fmt.Errorf("blacklist database is required for the sqlite backend")
			}
		default:
			return fmt.Errorf("unknown oracle backend: %s", backend)
		}
	}
	return nil
}
