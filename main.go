// Command lifemaze runs the LIFE maze server.
//
// It supports three commands:
//  1. "server" (default): runs the HTTP server exposing the room WebSocket, the REST API and an /mcp endpoint
//  2. "stdio-mcp": runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "maze": prints the maze generated for a size and seed
//
// Every flag can also be set from the environment or a .env file.
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
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/life-maze/api"
	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/room"
	"github.com/wricardo/life-maze/game/service"
	"github.com/wricardo/life-maze/transport/mcp"
	"github.com/wricardo/life-maze/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "LIFE Maze Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("lifemaze failed")
	}
}

// newApp builds the command tree. Flags declared on the root are visible to
// every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:           "lifemaze",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format: text or json",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
				Validator: func(s string) error {
					if s != "text" && s != "json" {
						return fmt.Errorf("unknown log format %q", s)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:    "levels",
				Usage:   "JSON level file (built-in levels when empty)",
				Sources: cli.EnvVars("LEVELS_FILE"),
			},
		},
		Commands: []*cli.Command{
			serverCommand(),
			stdioMCPCommand(),
			mazeCommand(),
		},
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run the HTTP server with WebSocket rooms, REST API and MCP endpoint",
		Flags: append(listenFlags(),
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-authtoken",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		),
		Action: runHTTPServer,
	}
}

func stdioMCPCommand() *cli.Command {
	return &cli.Command{
		Name:    "stdio-mcp",
		Aliases: []string{"mcp-stdio", "mcp"},
		Usage:   "Run an MCP stdio server backed by an external or internal HTTP API",
		Flags: append(listenFlags(),
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API to proxy when it is reachable",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("API_URL"),
			},
		),
		Action: runStdioMCP,
	}
}

func mazeCommand() *cli.Command {
	return &cli.Command{
		Name:  "maze",
		Usage: "Print the maze generated for a size and seed",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "size",
				Usage: "Cells per side",
				Value: 10,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed (random layout when unset)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the cell grid as JSON instead of ASCII",
			},
		},
		Action: printMaze,
	}
}

func listenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "HTTP server port",
			Value:   8080,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "HTTP server host",
			Value:   "0.0.0.0",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.StringFlag{
			Name:    "assets",
			Usage:   "Directory holding the avatar images",
			Value:   "frontend/assets/images",
			Sources: cli.EnvVars("ASSETS_DIR"),
		},
		&cli.StringSliceFlag{
			Name:    "allowed-origins",
			Usage:   "Origins allowed for CORS and WebSocket upgrades",
			Value:   []string{"*"},
			Sources: cli.EnvVars("ALLOWED_ORIGINS"),
		},
		&cli.DurationFlag{
			Name:    "auto-start-delay",
			Usage:   "Delay between the last player becoming ready and the race starting",
			Value:   room.DefaultAutoStartDelay,
			Sources: cli.EnvVars("AUTO_START_DELAY"),
		},
	}
}

// newLogger configures a logger from the root flags.
func newLogger(cmd *cli.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cmd.Bool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
	if cmd.String("log-format") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// app is the set of wired services behind one HTTP handler.
type app struct {
	hub     *websocket.Hub
	handler http.Handler
}

// initializeServices wires the level config, the room hub and the HTTP API.
// The hub is not running until its Run method is called.
func initializeServices(cmd *cli.Command, log logrus.FieldLogger) (*app, error) {
	levels, err := config.NewManager(cmd.String("levels"))
	if err != nil {
		return nil, fmt.Errorf("failed to load levels: %w", err)
	}
	log.WithFields(logrus.Fields{
		"source": levels.Source(),
		"levels": len(levels.Levels()),
	}).Info("Levels loaded")

	origins := cmd.StringSlice("allowed-origins")
	hub := websocket.NewHub(websocket.Config{
		Sizes:          levels.Sizes(),
		AutoStartDelay: cmd.Duration("auto-start-delay"),
		AllowedOrigins: origins,
		Logger:         log,
	})

	lobby := service.NewLobbyService(hub, levels)
	apiServer := api.NewServer(lobby, hub, api.Options{
		AssetsDir:      cmd.String("assets"),
		AllowedOrigins: origins,
		Logger:         log,
	})

	return &app{hub: hub, handler: apiServer}, nil
}

// runHTTPServer starts the HTTP server with the room hub, REST API and an
// /mcp proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)

	a, err := initializeServices(cmd, log)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.hub.Run(ctx)
	}()

	addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(cmd.Int("port")))
	mcpClient := mcp.NewClient("http://" + net.JoinHostPort(loopbackHost(cmd.String("host")), strconv.Itoa(cmd.Int("port"))))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", a.handler)
	mainRouter.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		log.Infof("WebSocket: ws://%s/ws", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, cmd, mainRouter, log)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("Server stopped")
	return nil
}

// serveNgrok serves handler through an ngrok tunnel until ctx is done.
func serveNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, log logrus.FieldLogger) {
	authToken := cmd.String("ngrok-authtoken")
	if authToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-authtoken or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info("Starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.WithField("url", url).Info("Ngrok tunnel established")
	log.Infof("  WebSocket (ngrok): %s/ws", url)
	log.Infof("  REST API (ngrok): %s/api", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Error("Ngrok server error")
	}
	log.Info("Ngrok tunnel closed")
}

// mcpHandler serves single JSON-RPC messages posted to /mcp.
func mcpHandler(s *server.MCPServer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

		response := s.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// loopbackHost maps wildcard listen hosts to an address the process can dial.
func loopbackHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "localhost"
	}
	return host
}

// runStdioMCP runs an MCP stdio server. It reuses the API at --api-url when
// it answers; otherwise it starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)

	baseURL := cmd.String("api-url")
	if apiReachable(ctx, baseURL) {
		log.WithField("url", baseURL).Info("Using external API server for MCP")
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		a, err := initializeServices(cmd, log)
		if err != nil {
			return err
		}
		go a.hub.Run(ctx)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: a.handler}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.WithField("url", baseURL).Info("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiReachable reports whether baseURL answers its health endpoint.
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// printMaze writes the maze for --size and --seed to the command's writer.
func printMaze(ctx context.Context, cmd *cli.Command) error {
	size := cmd.Int("size")

	var m maze.Maze
	if cmd.IsSet("seed") {
		var err error
		if m, err = maze.New(size, cmd.Int64("seed")); err != nil {
			return err
		}
	} else {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", maze.ErrInvalidSize, size)
		}
		m = maze.GenerateRandom(size)
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	stats := m.Analyze()
	fmt.Fprint(out, m.String())
	fmt.Fprintf(out, "size %d, dead ends %d, shortest path %d\n", stats.Size, stats.DeadEnds, stats.SolutionLength)
	return nil
}
