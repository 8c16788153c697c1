package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"codesensei/packages/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "1.0.0"

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the API server.
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "codesensei",
		Version: Version,
		Short:   "CodeSensei - learn any GitHub repository",
		Long: `CodeSensei analyses a public GitHub repository and reports its technology
stack, a complexity estimate, community activity and where to start reading.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is "+config.DefaultConfigPath+")")
	flags.Int("port", 0, "port to listen on (overrides PORT)")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS key file")
	flags.Bool("hosted", false, "run with the hosted CORS allow-list and without TLS")
	flags.Bool("strict-status-codes", false, "answer errors with 4xx/5xx instead of 200")
	flags.String("complexity-strategy", "", "complexity scorer: basic or weighted")
	flags.String("github-url", "", "GitHub API base URL")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("json-logs", false, "write logs as JSON")

	for key, flag := range map[string]string{
		"config":              "config",
		"port":                "port",
		"tls_cert":            "tls-cert",
		"tls_key":             "tls-key",
		"hosted":              "hosted",
		"strict_status_codes": "strict-status-codes",
		"complexity_strategy": "complexity-strategy",
		"github_base_url":     "github-url",
		"log_level":           "log-level",
		"json_logs":           "json-logs",
	} {
		v.BindPFlag(key, flags.Lookup(flag))
	}

	v.SetEnvPrefix("CODESENSEI")
	v.AutomaticEnv()

	rootCmd.AddCommand(newServeCommand(v), newAnalyzeCommand(v))
	return rootCmd
}

// loadConfig reads the config file and layers flags and CODESENSEI_*
// variables on top.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(v.GetString("config"))
	if err != nil {
		return nil, err
	}

	if v.IsSet("port") && v.GetInt("port") > 0 {
		cfg.Server.Port = v.GetInt("port")
	}
	if v.IsSet("tls_cert") {
		cfg.Server.TLSCertFile = v.GetString("tls_cert")
	}
	if v.IsSet("tls_key") {
		cfg.Server.TLSKeyFile = v.GetString("tls_key")
	}
	if v.IsSet("hosted") {
		cfg.Server.Hosted = v.GetBool("hosted")
	}
	if v.IsSet("strict_status_codes") {
		cfg.Server.StrictStatusCodes = v.GetBool("strict_status_codes")
	}
	if v.IsSet("complexity_strategy") {
		cfg.Analysis.ComplexityStrategy = v.GetString("complexity_strategy")
	}
	if v.IsSet("github_base_url") {
		cfg.GitHub.BaseURL = v.GetString("github_base_url")
	}
	if v.IsSet("log_level") {
		cfg.Debug.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("json_logs") {
		cfg.Debug.JSONLogs = v.GetBool("json_logs")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger installs the process-wide slog handler.
func setupLogger(cfg config.DebugConfig, w io.Writer) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Enabled {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.JSONLogs {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
