// Package app wires configuration, logging, the tool registry and the
// transports into a runnable tool server process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"workspace-mcp/internal/config"
	"workspace-mcp/internal/logging"
	"workspace-mcp/internal/registry"
	"workspace-mcp/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Group is a set of tools that registers itself on a registry.
type Group interface {
	Register(reg *registry.Registry) error
}

// Definition describes one tool server binary.
type Definition struct {
	Name      string
	Version   string
	EnvPrefix string
	Port      string
	// Tools builds the tool group from the process logger and config.
	Tools func(logger *slog.Logger, cfg config.Config) Group
}

// CLI holds the command-line flags. Non-empty flags override config values.
type CLI struct {
	Config    string           `help:"Path to a YAML, TOML or JSON config file." placeholder:"FILE"`
	EnvFile   string           `help:"Path to a .env file; ignored if missing." default:".env" placeholder:"FILE"`
	Port      string           `help:"Listen port."`
	Transport string           `help:"Transport to serve on: http or stdio."`
	LogLevel  string           `help:"Log level: debug, info, warn or error."`
	LogFormat string           `help:"Log line format: classic, text or json."`
	Version   kong.VersionFlag `help:"Print version and exit."`
}

// Main parses flags and runs def until SIGINT or SIGTERM.
func Main(def Definition) {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name(def.Name),
		kong.Description("Serves the "+def.Name+" tools over HTTP or stdio."),
		kong.Vars{"version": def.Version},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx.FatalIfErrorf(Run(ctx, def, cli))
}

// Run loads configuration and serves until ctx is done.
func Run(ctx context.Context, def Definition, cli CLI) error {
	if err := config.LoadDotEnv(cli.EnvFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(cli.Config, config.Defaults{EnvPrefix: def.EnvPrefix, Port: def.Port})
	if err != nil {
		return err
	}
	cfg = cli.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, logger, err := Build(def, cfg, os.Stderr)
	if err != nil {
		return err
	}

	if cfg.Transport == config.TransportStdio {
		logger.Info("serving MCP over stdio", "server", def.Name)
		return srv.MCP().Serve(ctx, os.Stdin, os.Stdout)
	}
	return serveHTTP(ctx, def, cfg, srv, logger)
}

// Build assembles the logger, registry and HTTP server for cfg. Logs go to out.
func Build(def Definition, cfg config.Config, out io.Writer) (*server.Server, *slog.Logger, error) {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})
	if err != nil {
		return nil, nil, err
	}
	reg := registry.New()
	if err := def.Tools(logger, cfg).Register(reg); err != nil {
		return nil, nil, err
	}
	srv := server.New(server.Config{Name: def.Name, Version: def.Version, Token: cfg.Token}, reg, logger)
	return srv, logger, nil
}

func serveHTTP(ctx context.Context, def Definition, cfg config.Config, srv *server.Server, logger *slog.Logger) error {
	if cfg.Token == "" {
		logger.Warn("token not set; /mcp endpoints are open. Set " + def.EnvPrefix + "_TOKEN to secure.")
	}
	if cfg.RedactFinancial {
		logger.Info("financial identifiers will be masked in logs")
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(srv.Router(), def.Name),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting MCP HTTP server", "server", def.Name, "addr", httpSrv.Addr, "tls", cfg.TLS())
		if cfg.TLS() {
			errc <- httpSrv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "server", def.Name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (c CLI) apply(cfg config.Config) config.Config {
	if c.Port != "" {
		cfg.Port = c.Port
	}
	if c.Transport != "" {
		cfg.Transport = c.Transport
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
	return cfg
}
