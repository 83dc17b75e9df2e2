package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/dukex/contentgraph/pkg/blocks"
	"github.com/dukex/contentgraph/pkg/cmd"
	"github.com/dukex/contentgraph/pkg/config"
	"github.com/dukex/contentgraph/pkg/executor"
	"github.com/dukex/contentgraph/pkg/ingestion"
	"github.com/dukex/contentgraph/pkg/log"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/otelhelper"
	"github.com/dukex/contentgraph/pkg/output"
	"github.com/dukex/contentgraph/pkg/pipeline"
	"github.com/dukex/contentgraph/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func main() {
	logger := log.WithModule("cli")

	command := &cli.Command{
		Name:                  "contentgraph",
		Usage:                 "Generate content pages from product records",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Execute the content pipeline for a product record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Path to the product record JSON file (\"-\" for stdin)",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to write run artifacts into",
						Sources: cli.EnvVars("OUTPUT_DIR"),
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the configuration file",
						Sources: cli.EnvVars("CONTENTGRAPH_CONFIG"),
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of concurrent node workers",
						Sources: cli.EnvVars("WORKERS"),
					},
					&cli.StringFlag{
						Name:    "timeout",
						Usage:   "Run timeout budget (e.g. 5m, 90s)",
						Sources: cli.EnvVars("RUN_TIMEOUT"),
					},
					&cli.StringFlag{
						Name:    "backend",
						Usage:   "Generation backend (static, http)",
						Sources: cli.EnvVars("GENERATION_BACKEND"),
					},
					&cli.StringFlag{
						Name:    "event-bus",
						Usage:   "Event bus provider (gochannel, kafka)",
						Sources: cli.EnvVars("EVENT_BUS"),
					},
					&cli.StringFlag{
						Name:    "log-level",
						Usage:   "Log level (debug, info, warn, error)",
						Value:   "info",
						Sources: cli.EnvVars("LOG_LEVEL"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runPipeline(ctx, logger, command)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func runPipeline(ctx context.Context, runLogger *slog.Logger, command *cli.Command) error {
	cfg := buildConfig(command)
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := readInput(command.String("input"))
	if err != nil {
		return err
	}

	eventBus := cmd.NewEventBus(cfg.EventBus, runLogger)
	defer func() {
		_ = eventBus.Close()
	}()

	registry := blocks.NewRegistry(runLogger)
	registry.RegisterDefaultBlocks()

	execOpts := []executor.Option{
		executor.WithWorkers(cfg.Workers),
		executor.WithTimeout(cfg.TimeoutDuration()),
		executor.WithEventBus(eventBus),
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := otelhelper.NewTracer(ctx, "contentgraph")
		if err != nil {
			runLogger.Warn("Failed to initialize tracer", "error", err)
		} else {
			execOpts = append(execOpts, executor.WithTracer(tracer))
		}
	}

	exec := executor.New(runLogger, execOpts...)

	runService := services.NewRun(
		runLogger,
		ingestion.New(runLogger),
		pipeline.New(runLogger, cmd.NewBackend(cfg, runLogger), registry),
		exec,
		output.NewWriter(cfg.OutputDir, runLogger),
	)

	result, err := runService.Execute(ctx, raw)
	if err != nil {
		return err
	}

	printSummary(result)

	if !result.Report.Success {
		return cli.Exit("run finished with failed nodes", 1)
	}

	return nil
}

func buildConfig(command *cli.Command) *config.Config {
	cfg := config.LoadOrDefault(command.String("config"))

	if v := command.Int("workers"); v > 0 {
		cfg.Workers = v
	}

	if v := command.String("timeout"); v != "" {
		cfg.Timeout = v
	}

	if v := command.String("output"); v != "" {
		cfg.OutputDir = v
	}

	if v := command.String("backend"); v != "" {
		cfg.Backend.Type = v
	}

	if v := command.String("event-bus"); v != "" {
		cfg.EventBus = v
	}

	return cfg
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func printSummary(result *services.RunResult) {
	fmt.Printf("run %s finished: success=%t version=%d\n",
		result.Report.RunID, result.Report.Success, result.Snapshot.Version())

	for _, id := range sortedNodeIDs(result.Report) {
		node := result.Report.Nodes[id]
		line := fmt.Sprintf("  %-25s %s", id, node.Status)

		if node.FallbackUsed {
			line += " (fallback)"
		}

		if node.Error != nil {
			line += " " + node.Error.Message
		}

		fmt.Println(line)
	}

	for _, file := range result.Files {
		fmt.Println("wrote", file)
	}
}

func sortedNodeIDs(report *models.ExecutionReport) []string {
	ids := make([]string, 0, len(report.Nodes))
	for id := range report.Nodes {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
