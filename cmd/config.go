package cmd

import (
	"fmt"

	"github.com/inovacc/repodeck/internal/application"
	"github.com/spf13/cobra"
)

const redacted = "********"

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after applying the config file, REPODECK_*
environment variables and command-line flags. Tokens are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *c.cfg
			if cfg.Auth.Token != "" {
				cfg.Auth.Token = redacted
			}

			if cfg.Storage.Path == "" {
				if p, err := application.DefaultStoragePath(cfg.Storage.Driver); err == nil {
					cfg.Storage.Path = p
				}
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), cfg)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "api.base_url:      %s\n", cfg.API.BaseURL)
			_, _ = fmt.Fprintf(out, "api.timeout:       %s\n", cfg.API.Timeout)
			_, _ = fmt.Fprintf(out, "auth.token:        %s\n", cfg.Auth.Token)
			_, _ = fmt.Fprintf(out, "auth.use_gh_cli:   %t\n", cfg.Auth.UseGHCLI)
			_, _ = fmt.Fprintf(out, "storage.driver:    %s\n", cfg.Storage.Driver)
			_, _ = fmt.Fprintf(out, "storage.path:      %s\n", cfg.Storage.Path)
			_, _ = fmt.Fprintf(out, "drafts.auto_prune: %t\n", cfg.Drafts.AutoPrune)
			_, _ = fmt.Fprintf(out, "log.level:         %s\n", cfg.Log.Level)
			_, _ = fmt.Fprintf(out, "log.format:        %s\n", cfg.Log.Format)

			return nil
		},
	})

	return cmd
}
