// SPDX-License-Identifier: Apache-2.0

// Command tally runs the attendance assistant: an interactive chat REPL, an
// MCP stdio server exposing the tool catalog, or a database seeder.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/pkg/config"
	"github.com/tallyhq/tally/pkg/hrstore"
	"github.com/tallyhq/tally/pkg/hrtools"
	"github.com/tallyhq/tally/pkg/llm"
	tallymcp "github.com/tallyhq/tally/pkg/mcp"
	"github.com/tallyhq/tally/pkg/orchestrator"
	"github.com/tallyhq/tally/pkg/role"
	"github.com/tallyhq/tally/pkg/session"
	"github.com/tallyhq/tally/pkg/telemetry"
	"github.com/tallyhq/tally/pkg/tool"
	"github.com/tallyhq/tally/providers/gemini"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (YAML)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	switch args[0] {
	case "chat":
		runChat(ctx, cfg, configPath)
	case "mcp":
		runMCP(cfg)
	case "seed":
		runSeed(ctx, cfg)
	case "version":
		fmt.Println("tally", version)
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func printUsage() {
	fmt.Println(`tally - attendance assistant

Usage:
  tally [-config path] <command>

Commands:
  chat      interactive chat with the assistant
  mcp       serve the attendance tool catalog over MCP stdio
  seed      create and populate the attendance database
  version   print the version
  help      show this help`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func runChat(ctx context.Context, cfg *config.Config, configPath string) {
	shutdown := initTelemetry(cfg)
	defer shutdown(ctx)

	// Operators can adjust log settings while a chat is running.
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath)
		if err != nil {
			fatal(err)
		}
		watcher.OnChange(func(c *config.Config) {
			telemetry.ConfigureSlog(os.Stderr, c.Log.Level, c.Log.Format)
			slog.Info("log settings reloaded", "level", c.Log.Level, "format", c.Log.Format)
		})
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	store, catalog := openCatalog(cfg)
	defer store.Close()

	roles, err := buildRoles(cfg)
	if err != nil {
		fatal(err)
	}

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		fatal(err)
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Provider: provider,
		Model:    cfg.LLM.Model,
		Catalog:  catalog,
		Roles:    roles,
		Sessions: session.NewStore(roles.Root()),
		MaxSteps: cfg.Orchestrator.MaxSteps,
		Fallback: cfg.Orchestrator.Fallback,
	})
	if err != nil {
		fatal(err)
	}

	sessionID := uuid.New().String()
	fmt.Println("tally attendance assistant. Type your question, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		answer, err := orch.Handle(ctx, sessionID, line)
		if err != nil {
			slog.Error("turn failed", "error", err)
			if answer == "" {
				answer = orch.Fallback()
			}
		}
		fmt.Println(answer)

		if ctx.Err() != nil {
			return
		}
	}
}

func runMCP(cfg *config.Config) {
	store, catalog := openCatalog(cfg)
	defer store.Close()

	srv := tallymcp.NewServer(cfg.MCP.Name, cfg.MCP.Version)
	if err := srv.RegisterCatalog(catalog); err != nil {
		fatal(err)
	}
	if err := srv.ServeStdio(); err != nil {
		fatal(err)
	}
}

func runSeed(ctx context.Context, cfg *config.Config) {
	store, err := hrstore.Open(cfg.DB.Path)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	if err := store.Seed(ctx, time.Now()); err != nil {
		fatal(err)
	}
	slog.Info("database seeded", "path", cfg.DB.Path)
}

func initTelemetry(cfg *config.Config) telemetry.ShutdownFunc {
	if !cfg.Telemetry.Enabled {
		return func(context.Context) error { return nil }
	}
	shutdown, err := telemetry.InitWithConfig(cfg.Telemetry.ServiceName, version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: true,
	})
	if err != nil {
		fatal(err)
	}
	return shutdown
}

func openCatalog(cfg *config.Config) (*hrstore.Store, *tool.Catalog) {
	store, err := hrstore.Open(cfg.DB.Path)
	if err != nil {
		fatal(err)
	}

	catalog := tool.NewCatalog()
	if err := catalog.Register(hrtools.All(store, hrtools.SystemClock{})...); err != nil {
		store.Close()
		fatal(err)
	}
	return store, catalog
}

func buildRoles(cfg *config.Config) (*role.Registry, error) {
	roles := role.Defaults()
	if cfg.Orchestrator.RolesFile != "" {
		manifest, err := role.LoadManifest(cfg.Orchestrator.RolesFile)
		if err != nil {
			return nil, err
		}
		roles = manifest.Apply(roles)
	}
	return role.NewRegistry(role.Manager, roles...)
}

func buildProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.APIKey != "" {
			return gemini.NewWithAPIKey(ctx, cfg.LLM.APIKey, gemini.WithModel(cfg.LLM.Model))
		}
		return gemini.New(ctx, gemini.WithModel(cfg.LLM.Model))
	case "ollama":
		return llm.NewOllama(cfg.LLM.BaseURL), nil
	case "mock":
		return &llm.MockProvider{Response: "mock provider is for tests only"}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
