// Command askd serves a locally installed assistant CLI over HTTP and MCP.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/deixis/askd"
	"github.com/deixis/askd/internal/config"
	"github.com/deixis/askd/internal/executor"
	"github.com/deixis/askd/internal/httpapi"
	askdmcp "github.com/deixis/askd/internal/mcp"
	"github.com/deixis/askd/internal/record"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "serve":
		err = serveMain(args)
	case "mcp":
		err = mcpMain(args)
	case "ask":
		err = askMain(args)
	case "version":
		fmt.Println(askd.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "askd: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "askd: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: askd <command> [flags]

Commands:
  serve       Start the HTTP server (/ask, /chat, /health, /version)
  mcp         Start the MCP server (stdio by default)
  ask         Send a one-shot prompt from the command line
  version     Print the version
  help        Show this help

Configuration comes from the optional .askd file and ASKD_* environment
variables (ASKD_HOST, ASKD_PORT, ASKD_TIMEOUT, ASKD_CORS, ASKD_LOG_LEVEL,
ASKD_COMMAND).

Use "askd <command> -h" for command-specific flags.`)
}

// --- serve ---

func serveMain(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address override (e.g. :8080)")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *addr != "" {
		host, port, splitErr := splitAddr(*addr)
		if splitErr != nil {
			return splitErr
		}
		cfg.RawHost = host
		cfg.RawPort = port
	}

	logger := newLogger(cfg)
	logger.Info("askd starting", "version", askd.Version)

	store := record.NewLRUStore(32, record.NewDiskStore())
	server := httpapi.NewServer(cfg, newExecutor(cfg), store, logger)
	return server.ListenAndServe(ctx)
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start streamable HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(askdmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store := record.NewLRUStore(32, record.NewDiskStore())
	server := askdmcp.NewServer(newExecutor(cfg), store)

	if *httpAddr != "" {
		return serveMCPHTTP(ctx, server, *httpAddr, logger)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveMCPHTTP(ctx context.Context, server *mcpsdk.Server, addr string, logger *slog.Logger) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	logger.Info("mcp listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- ask ---

func askMain(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	_ = fs.Parse(args)

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return fmt.Errorf("no prompt given (pass it as arguments or on stdin)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	answer, err := newExecutor(cfg).Run(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

// --- shared ---

func loadConfig() (*config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newExecutor(cfg *config.Config) *executor.Executor {
	return &executor.Executor{
		Command:   cfg.Command(),
		Args:      cfg.Args(),
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel()),
	}))
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitAddr parses "host:port" or ":port" into its parts.
func splitAddr(addr string) (string, int, error) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("invalid address %q", addr)
	}
	host := addr[:i]
	var port int
	if _, err := fmt.Sscanf(addr[i+1:], "%d", &port); err != nil || port <= 0 {
		return "", 0, fmt.Errorf("invalid address %q", addr)
	}
	if host == "" {
		host = "0.0.0.0"
	}
	return host, port, nil
}
