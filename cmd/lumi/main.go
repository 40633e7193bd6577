// Command lumi runs the virtual idol chat agent: a workflow graph of
// router, retrieval, tool execution and response nodes exposed over HTTP
// with node-level progress streaming.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/graph"
	"github.com/lumilabs/lumi/pkg/knowledge"
	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/logger"
	"github.com/lumilabs/lumi/pkg/observability"
	"github.com/lumilabs/lumi/pkg/server"
	"github.com/lumilabs/lumi/pkg/session"
	"github.com/lumilabs/lumi/pkg/storage"
	"github.com/lumilabs/lumi/pkg/tools"
)

var version = "dev"

type CLI struct {
	Config    string `help:"Path to the YAML config file." short:"c" type:"path"`
	LogLevel  string `help:"Log level." default:"info" enum:"debug,info,warn,error"`
	LogFormat string `help:"Log format." default:"simple" enum:"simple,verbose,text"`
	LogFile   string `help:"Write logs to a file instead of stderr." type:"path"`

	Serve    ServeCmd    `cmd:"" default:"1" help:"Start the agent server."`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration and exit."`
	Version  VersionCmd  `cmd:"" help:"Print the version."`
}

type ServeCmd struct{}

type ValidateCmd struct{}

type VersionCmd struct{}

func (c *VersionCmd) Run(*CLI) error {
	fmt.Println(version)
	return nil
}

func (c *ValidateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	fmt.Printf("Configuration valid: llm=%s knowledge=%s port=%d\n",
		cfg.LLM.Model, cfg.Knowledge.Provider, cfg.Server.Port)
	return nil
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := llms.NewSolarProvider(cfg.LLM)
	defer provider.Close()

	if cfg.LLM.APIKey == "" {
		slog.Warn("No LLM API key configured; model calls will fail until UPSTAGE_API_KEY is set")
	}

	// Tool data: Postgres when configured, seeded in-memory data otherwise.
	var store storage.Store
	if cfg.Database.URL != "" {
		store, err = storage.NewPostgresStore(ctx, cfg.Database)
		if err != nil {
			slog.Warn("Database unavailable, falling back to in-memory data", "error", err)
			store = storage.NewMemStore()
		}
	} else {
		slog.Warn("No database configured; using seeded in-memory data")
		store = storage.NewMemStore()
	}
	defer store.Close()

	registry, err := tools.NewDefaultRegistry(store)
	if err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	// Knowledge base: degrade to no retrieval context rather than refusing
	// to start.
	var knowledgeStore knowledge.Store
	if cfg.Knowledge.Provider != "none" {
		embedder := llms.NewSolarEmbedder(cfg.Embedder)
		knowledgeStore, err = knowledge.NewStore(cfg.Knowledge, embedder)
		if err != nil {
			slog.Warn("Knowledge store unavailable, retrieval will degrade", "error", err)
			knowledgeStore = nil
		} else if cfg.Embedder.APIKey != "" {
			if err := knowledge.SeedDefaults(ctx, knowledgeStore); err != nil {
				slog.Warn("Failed to seed knowledge base", "error", err)
			}
		}
	}
	if knowledgeStore != nil {
		defer knowledgeStore.Close()
	}

	// The graph compiles once at warm-up; a malformed graph aborts startup.
	compiled, err := graph.Assemble(cfg, provider, knowledgeStore, registry)
	if err != nil {
		return fmt.Errorf("failed to compile workflow graph: %w", err)
	}

	sessions := session.NewStore(cfg.Agent.MaxHistoryTurns, cfg.Agent.SessionTTL)
	defer sessions.Close()

	var opts []server.Option
	if cfg.Metrics.Enabled {
		metrics := observability.InitGlobalMetrics()
		opts = append(opts, server.WithMetricsHandler(metrics.Handler()))
	}

	srv := server.New(cfg, graph.NewCoordinator(compiled), sessions, registry, store, opts...)

	slog.Info("Agent ready",
		"version", version,
		"model", cfg.LLM.Model,
		"knowledge", cfg.Knowledge.Provider,
		"environment", cfg.Environment,
	)

	return srv.Start(ctx)
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("lumi"),
		kong.Description("Virtual idol chat agent."),
		kong.UsageOnError(),
	)

	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env files: %v\n", err)
		os.Exit(1)
	}

	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}

	level, _ := logger.ParseLevel(cli.LogLevel)
	logger.Init(level, output, cli.LogFormat)

	if err := kctx.Run(cli); err != nil {
		slog.Error("Fatal", "error", err)
		os.Exit(1)
	}
}
