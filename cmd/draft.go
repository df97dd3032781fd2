package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDraftCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect the locally saved repositories",
		Long: `Repositories created with repodeck are saved locally and listed ahead of
the server listing. Unless drafts.auto_prune is enabled they stay saved after
the server confirms them; use 'repodeck draft prune' to drop those.`,
	}

	cmd.AddCommand(newDraftListCmd(c), newDraftRemoveCmd(c), newDraftPruneCmd(c))

	return cmd
}

func newDraftListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List saved repositories",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := c.app.Drafts.Load()

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), list)
			}

			printRepoTable(cmd.OutOrStdout(), list)

			return nil
		},
	}
}

func newDraftRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Short:   "Forget a saved repository (the server is not contacted)",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := c.app.Drafts.Remove(args[0])
			if err != nil {
				return err
			}

			if !ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No saved repository named %q\n", args[0])
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])

			return nil
		},
	}
}

func newDraftPruneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop saved repositories the server listing already contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.app.PruneDrafts(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d saved repositories\n", n)

			return nil
		},
	}
}
