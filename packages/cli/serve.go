package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codesensei/packages/ai"
	"codesensei/packages/analysis"
	"codesensei/packages/config"
	"codesensei/packages/handlers"
	"codesensei/packages/repository"
	"codesensei/packages/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	setupLogger(cfg.Debug, cmd.ErrOrStderr())

	svc, closeLLM, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	slog.Info("Configuration loaded",
		"port", cfg.Server.Port,
		"hosted", cfg.Server.Hosted,
		"githubToken", cfg.HasGitHubToken(),
		"llm", svc.HasLLM(),
		"complexityStrategy", cfg.Analysis.ComplexityStrategy,
		"allowedOrigins", cfg.AllowedOrigins())

	router := handlers.NewRouter(handlers.NewHandler(cfg, svc, Version))
	srv := server.New(cfg, router)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildService wires the GitHub source and the optional LLM client into an
// analysis service. The returned func releases the LLM client.
func buildService(ctx context.Context, cfg *config.Config) (*analysis.Service, func(), error) {
	if !cfg.HasGitHubToken() {
		slog.Warn("GITHUB_TOKEN is not set; analysis requests will fail")
	}

	gh, err := repository.NewGitHubClient(cfg.GitHub)
	if err != nil {
		return nil, nil, err
	}

	var llm ai.Client
	closeLLM := func() {}
	client, err := ai.NewClient(ctx, cfg.AI)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		slog.Warn("No LLM configured; reports will use the basic summary", "provider", cfg.AI.Provider)
	case err != nil:
		return nil, nil, err
	default:
		llm = client
		closeLLM = func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close LLM client", "error", err)
			}
		}
	}

	svc, err := analysis.NewService(cfg, repository.NewGitHubSource(gh), llm)
	if err != nil {
		closeLLM()
		return nil, nil, err
	}
	return svc, closeLLM, nil
}
