package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <github-url>",
		Short: "Analyze one repository and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			result, err := svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
