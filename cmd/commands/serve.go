package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/todoscope/internal/config"
	"github.com/dohr-michael/todoscope/internal/dedup"
	"github.com/dohr-michael/todoscope/internal/detect"
	"github.com/dohr-michael/todoscope/internal/directory"
	"github.com/dohr-michael/todoscope/internal/events"
	"github.com/dohr-michael/todoscope/internal/gateway"
	"github.com/dohr-michael/todoscope/internal/ingest"
	"github.com/dohr-michael/todoscope/internal/models"
	"github.com/dohr-michael/todoscope/internal/slack"
	"github.com/dohr-michael/todoscope/internal/todo"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the todoscope server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", configPath, "error", err)
		cfg = config.Default()
	}

	// CLI flags override config.
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	// Event bus
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	// Model registry and detection collaborators
	registry := models.NewRegistry(cfg.Models)
	chatModel, err := registry.Default(ctx)
	if err != nil {
		return fmt.Errorf("init default model: %w", err)
	}
	classifier := detect.NewClassifier(chatModel)
	extractor := detect.NewExtractor(chatModel)

	// Todo state
	store := todo.NewStore()
	detector := dedup.New(cfg.Dedup.Threshold, cfg.Dedup.Window.Duration())
	defer detector.Close()

	// Slack is optional: without tokens the gateway still serves the
	// board, there is just nothing feeding it.
	var slackClient *slack.Client
	var lookup directory.Lookup
	if cfg.Slack.BotToken != "" && cfg.Slack.AppToken != "" {
		slackClient = slack.New(cfg.Slack)
		lookup = slackClient
	} else {
		slog.Warn("slack tokens not configured, running without message ingestion")
		lookup = directory.LookupFunc(func(ctx context.Context, id string, kind directory.Kind) (string, error) {
			return id, nil
		})
	}

	pipeline := ingest.New(ingest.Config{
		Classifier: classifier,
		Extractor:  extractor,
		Detector:   detector,
		Resolver:   directory.NewResolver(lookup),
		Store:      store,
		Bus:        bus,
	})

	if slackClient != nil {
		slackClient.SetPipeline(pipeline)
	}

	// Gateway server
	server := gateway.NewServer(store, bus, cfg.Gateway.Host, cfg.Gateway.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	if slackClient != nil {
		go func() {
			if err := slackClient.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("slack client stopped", "error", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
