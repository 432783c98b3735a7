// Command slidesort-server starts the slidesort puzzle server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from an optional TOML file (-settings); explicit flags win over the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/slidesort/api"
	"github.com/wricardo/slidesort/game/config"
	"github.com/wricardo/slidesort/game/service"
	"github.com/wricardo/slidesort/game/session"
	"github.com/wricardo/slidesort/logging"
	"github.com/wricardo/slidesort/transport/mcp"
	"github.com/wricardo/slidesort/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "slidesort server"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	settingsPath = flag.String("settings", "", "TOML settings file (optional)")
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", getConfigDirDefault(), "Directory containing puzzle configurations")
	sessionsDir  = flag.String("sessions-dir", "sessions", "Directory for persisted sessions")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                            # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -settings slidesort.toml   # Read settings from a file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                  # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	logging.InitLogger("slidesort")

	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("error loading .env file")
		}
	} else {
		log.Info().Msg("loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	settings, err := resolveSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	// Determine mode from command
	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	log.Info().Str("version", Version).Str("mode", mode).Msg("starting " + AppName)

	svc, err := initializeServices(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.maintain(ctx, settings)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, settings, svc.puzzles)

	case "server", "http":
		runHTTPServer(ctx, settings, svc.puzzles)

	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode, use 'server' (default) or 'stdio-mcp'")
	}

	if err := svc.sessions.SaveAllSessions(); err != nil {
		log.Error().Err(err).Msg("failed to save sessions on shutdown")
	}
	log.Info().Msg("server stopped")
}

// resolveSettings layers explicitly set flags over the settings file (or defaults).
func resolveSettings() (config.Settings, error) {
	settings := config.DefaultSettings()
	if *settingsPath != "" {
		loaded, err := config.LoadSettings(*settingsPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	applyFlags(&settings, explicit)

	return settings, nil
}

// applyFlags copies flag values into settings. Flags the user set always win;
// the CONFIG_DIR-aware default also applies when no settings file names a directory.
func applyFlags(settings *config.Settings, explicit map[string]bool) {
	if explicit["host"] {
		settings.Host = *host
	}
	if explicit["port"] {
		settings.Port = *port
	}
	if explicit["config-dir"] || (*settingsPath == "" && os.Getenv("CONFIG_DIR") != "") {
		settings.ConfigDir = *configDir
	}
	if explicit["sessions-dir"] {
		settings.SessionsDir = *sessionsDir
	}
	if explicit["ngrok-domain"] {
		settings.NgrokDomain = *ngrokDomain
	}
}

// services bundles what the run modes and background routines need
type services struct {
	puzzles  service.PuzzleService
	sessions *session.Manager
}

// initializeServices wires session/config managers and the puzzle service.
func initializeServices(settings config.Settings) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if settings.DefaultConfig != "" {
		if err := configManager.SetDefault(settings.DefaultConfig); err != nil {
			log.Warn().Err(err).Str("config", settings.DefaultConfig).Msg("default config not available, keeping built-in default")
		}
	}

	persistence, err := session.NewFilePersistence(settings.SessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Warn().Err(err).Msg("failed to load persisted sessions")
	}

	return &services{
		puzzles:  service.NewPuzzleService(sessionManager, configManager),
		sessions: sessionManager,
	}, nil
}

// maintain runs session housekeeping until ctx is cancelled:
// expiring idle sessions and dropping sessions whose files were deleted.
func (s *services) maintain(ctx context.Context, settings config.Settings) {
	cleanup := time.NewTicker(settings.CleanupInterval)
	defer cleanup.Stop()
	prune := time.NewTicker(settings.SyncInterval)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-cleanup.C:
			if removed := s.sessions.CleanupExpiredSessions(settings.SessionTTL); removed > 0 {
				log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}

		case <-prune.C:
			if pruned := s.sessions.PruneOrphaned(); pruned > 0 {
				log.Info().Int("pruned", pruned).Msg("filesystem sync: pruned orphaned sessions from memory")
			}
		}
	}
}

// newHandler builds the HTTP surface: REST API, WebSocket hub and the /mcp endpoint
// proxying to baseURL. The hub runs until ctx is cancelled.
func newHandler(ctx context.Context, puzzles service.PuzzleService, baseURL string) http.Handler {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(puzzles, hub)
	apiServer.Mount("/mcp", mcp.NewClient(baseURL))
	return apiServer
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, settings config.Settings, puzzles service.PuzzleService) {
	addr := settings.Addr()
	handler := newHandler(ctx, puzzles, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if ngrokRequested() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, settings, handler)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
}

// ngrokRequested checks the flag, then NGROK_ENABLED
func ngrokRequested() bool {
	if *ngrokEnabled {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// ngrokAuthToken reads the token from flag or environment (both naming conventions)
func ngrokAuthToken() string {
	if *ngrokAuth != "" {
		return *ngrokAuth
	}
	if token := os.Getenv("NGROK_AUTHTOKEN"); token != "" {
		return token
	}
	return os.Getenv("NGROK_AUTH_TOKEN")
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, settings config.Settings, handler http.Handler) {
	authToken := ngrokAuthToken()
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	domain := settings.NgrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info().Str("domain", domain).Msg("starting ngrok tunnel")

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	// Closing the listener ends http.Serve below
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().
		Str("url", url).
		Str("api", url+"/api").
		Str("mcp", url+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable, it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, settings config.Settings, puzzles service.PuzzleService) {
	baseURL := "http://" + settings.Addr()

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", baseURL).Msg("external API server found, using it for MCP")
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get available port")
		}

		baseURL = "http://" + listener.Addr().String()
		httpServer := &http.Server{Handler: newHandler(ctx, puzzles, baseURL)}

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("started internal HTTP server for MCP stdio")
	}

	done := make(chan error, 1)
	go func() {
		done <- mcp.NewClient(baseURL).ServeStdio()
	}()

	log.Info().Msg("MCP stdio server ready")

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("MCP stdio server error")
		}
	case <-ctx.Done():
	}
}
