package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modal-tools/modal-mcp-server/configs"
	"github.com/modal-tools/modal-mcp-server/internal/app"
	"github.com/modal-tools/modal-mcp-server/internal/audit"
	"github.com/modal-tools/modal-mcp-server/internal/config"
	"github.com/modal-tools/modal-mcp-server/internal/dispatch"
	"github.com/modal-tools/modal-mcp-server/internal/httpapi"
	"github.com/modal-tools/modal-mcp-server/internal/log"
	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/runtime"
	"github.com/modal-tools/modal-mcp-server/internal/settings"
	"github.com/modal-tools/modal-mcp-server/internal/startup"
	"github.com/modal-tools/modal-mcp-server/internal/tools"
)

func main() {
	settingsPath := flag.String("settings", "", "Path to the settings file (overrides MODAL_MCP_SETTINGS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *settingsPath != "" {
		cfg.SettingsPath = *settingsPath
	}

	logger := log.New(cfg.LogLevel)

	raw, err := os.ReadFile(cfg.SettingsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		raw = configs.Default()
	case err != nil:
		logger.Error("read settings failed", "path", cfg.SettingsPath, "error", err)
		os.Exit(1)
	}

	s, err := settings.Load(raw)
	if err != nil {
		logger.Error("parse settings failed", "error", err)
		os.Exit(1)
	}

	runner := modal.CLI{
		Binary: s.Modal.Binary,
		Env:    s.Modal.Env,
	}

	reg, err := tools.Service{
		Runner:    runner,
		UVDeploy:  s.Modal.UVDeploy,
		Overrides: s.Tools,
	}.Registry()
	if err != nil {
		logger.Error("build registry failed", "error", err)
		os.Exit(1)
	}

	dispatcher := dispatch.Dispatcher{
		Registry: reg,
		Logger:   logger,
		Audit:    audit.New(logger),
	}

	server := runtime.Builder{
		Name:       s.Server.Name,
		Version:    s.Server.Version,
		Dispatcher: dispatcher,
	}.Build()

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	if s.Server.Preflight {
		if err := startup.Preflight(baseCtx, runner, logger); err != nil {
			logger.Error("preflight failed", "error", err)
			os.Exit(1)
		}
	}

	switch s.Server.Transport {
	case "stdio":
		if err := server.Run(baseCtx, &mcp.StdioTransport{}); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		if err := runHTTP(baseCtx, cfg, s, server, dispatcher, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

func runHTTP(ctx context.Context, envCfg config.Config, s *settings.Settings, server *mcp.Server, dispatcher dispatch.Dispatcher, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: s.Server.HTTP.Stateless,
	})

	api := &httpapi.Handler{
		Name:       s.Server.Name,
		Version:    s.Server.Version,
		Dispatcher: dispatcher,
		Logger:     logger,
	}

	application, err := app.New(ctx, s.Server.HTTP, handler, api, logger, envCfg.ShutdownTimeout)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
