// Command quoridor-server runs the Quoridor game server.
//
// It supports two modes:
//  1. "serve" (default) runs the HTTP server exposing the REST API, the
//     WebSocket endpoint and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server, starting an internal HTTP API when no
//     server is already listening
//
// Settings come from QUORIDOR_* environment variables (a .env file is
// loaded first) and may be overridden by flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/quoridor-server/api"
	"github.com/wricardo/quoridor-server/game/config"
	"github.com/wricardo/quoridor-server/game/service"
	"github.com/wricardo/quoridor-server/game/session"
	"github.com/wricardo/quoridor-server/telemetry"
	"github.com/wricardo/quoridor-server/transport/mcp"
	"github.com/wricardo/quoridor-server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Quoridor Server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()
	if envErr != nil && !os.IsNotExist(envErr) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. Running it without a subcommand serves HTTP.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "quoridor-server",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host (QUORIDOR_HOST)"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port (QUORIDOR_PORT)"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging (QUORIDOR_DEBUG)"},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server",
				Action:  runStdioMCP,
			},
		},
	}
}

// loadSettings reads the environment then applies flags that were set
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("debug") {
		settings.Debug = cmd.Bool("debug")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// app holds the wired components shared by both modes
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	rooms    *session.Manager
	hub      *websocket.Hub
	service  service.GameService
}

// newApp wires the hub, room registry and game service
func newApp(settings *config.Settings, logger *zap.Logger, clk bclock.Clock) *app {
	hub := websocket.NewHub(logger.Named("ws"), settings.OriginAllowed)
	rooms := session.NewManager(
		session.WithClock(clk),
		session.WithNotifier(hub),
		session.WithLogger(logger.Named("session")),
		session.WithDefaultTimer(settings.DefaultTimer),
	)

	return &app{
		settings: settings,
		logger:   logger,
		rooms:    rooms,
		hub:      hub,
		service:  service.NewGameService(rooms, logger.Named("service")),
	}
}

// handler mounts the API at the root and the MCP endpoint at /mcp.
// mcpBaseURL is where MCP tool calls send their REST requests.
func (a *app) handler(mcpBaseURL string) http.Handler {
	apiServer := api.NewServer(a.service, a.hub,
		api.WithOriginPolicy(a.settings.OriginAllowed),
		api.WithLogger(a.logger.Named("api")),
	)
	mcpClient := mcp.NewClient(mcpBaseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// cleanupRoutine removes rooms idle longer than ttl every interval
func cleanupRoutine(ctx context.Context, clk bclock.Clock, rooms *session.Manager, interval, ttl time.Duration, logger *zap.Logger) error {
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := rooms.CleanupExpiredSessions(ttl); removed > 0 {
				logger.Info("cleaned up idle rooms", zap.Int("removed", removed))
			}
		}
	}
}

// runServe starts the HTTP server and, if enabled, an ngrok tunnel. It
// returns once ctx is cancelled and everything has shut down.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(settings.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(ctx, settings.OTelEndpoint, "quoridor-server")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	clk := bclock.New()
	a := newApp(settings, logger, clk)
	defer a.rooms.Close()

	addr := settings.Addr()
	handler := a.handler("http://" + localAddr(settings))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("version", Version),
			zap.String("rest", "/api"),
			zap.String("websocket", "/ws?code=<code>&token=<token>"),
			zap.String("mcp", "/mcp"),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})

	g.Go(func() error {
		return cleanupRoutine(gctx, clk, a.rooms, settings.CleanupInterval, settings.RoomIdleTTL, logger)
	})

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			runTunnel(gctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler, logger)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// runTunnel serves handler through ngrok until ctx is cancelled. Tunnel
// failures are logged and leave the local server running.
func runTunnel(ctx context.Context, authToken, domain string, handler http.Handler, logger *zap.Logger) {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	logger.Info("ngrok tunnel established", zap.String("url", tun.URL()))

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// localAddr is the loopback address MCP tools use to reach this server
func localAddr(settings *config.Settings) string {
	host := settings.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(settings.Port))
}

// probe reports whether a Quoridor server answers at baseURL
func probe(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP serves MCP over stdio. It reuses a server already listening
// on the configured address, or starts an internal one on a random
// loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// Stdout carries the protocol; zap writes to stderr
	logger, err := newLogger(settings.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	baseURL := "http://" + localAddr(settings)
	if probe(ctx, baseURL) {
		logger.Info("using external API server", zap.String("url", baseURL))
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		clk := bclock.New()
		a := newApp(settings, logger, clk)
		defer a.rooms.Close()

		internal := &http.Server{Handler: a.handler(baseURL)}
		go a.hub.Run(ctx)
		go cleanupRoutine(ctx, clk, a.rooms, settings.CleanupInterval, settings.RoomIdleTTL, logger)
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer internal.Close()

		logger.Info("started internal API server", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	logger.Info("MCP stdio server ready")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
