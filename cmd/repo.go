package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRepoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage the authenticated user's repositories",
	}

	cmd.AddCommand(
		newRepoListCmd(c),
		newRepoCreateCmd(c),
		newRepoEditCmd(c),
		newRepoDeleteCmd(c),
	)

	return cmd
}

func newRepoListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your repositories",
		Long: `List up to 100 of your repositories, newest first.

Repositories created with repodeck are shown first, ahead of the server
listing, and take precedence over a server record with the same name.

Examples:
  repodeck repo list
  repodeck repo list --json`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.ListRepositories(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), list)
			}

			printRepoTable(cmd.OutOrStdout(), list)

			return nil
		},
	}
}

func newRepoCreateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a repository",
		Long: `Create a repository on the authenticated account.

Names may contain letters, digits, hyphens (-), underscores (_) and dots (.).

Examples:
  repodeck repo create my-tool
  repodeck repo create my-tool --description "A small tool" --private`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newCreateRequest(cmd, args[0])

			created, err := c.app.CreateRepository(cmd.Context(), req)
			if err != nil {
				return err
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), created)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", titleStyle.Render(created.FullName()))

			if u := created.HTMLURL(c.app.Host()); u != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			}

			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Repository description")
	cmd.Flags().Bool("private", false, "Create a private repository")

	return cmd
}

func newRepoEditCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [owner/name | name | url]",
		Short: "Edit a repository's name, description or visibility",
		Long: `Edit a repository. Only the flags given are changed.

The repository defaults to the origin remote of the current directory. A bare
name matching a local draft edits the draft without contacting the server.

Examples:
  repodeck repo edit --description "New description"
  repodeck repo edit octocat/my-tool --name my-renamed-tool
  repodeck repo edit my-tool --private=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newEditRequest(cmd)
			if req.IsEmpty() {
				return fmt.Errorf("nothing to update: pass --name, --description or --private")
			}

			ref, err := c.app.ResolveRef(firstArg(args))
			if err != nil {
				return err
			}

			updated, err := c.app.EditRepository(cmd.Context(), ref, req)
			if err != nil {
				return err
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), updated)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", titleStyle.Render(updated.FullName()))

			return nil
		},
	}

	cmd.Flags().String("name", "", "New repository name")
	cmd.Flags().StringP("description", "d", "", "New description (empty clears it)")
	cmd.Flags().Bool("private", false, "Make the repository private (--private=false makes it public)")

	return cmd
}

func newRepoDeleteCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [owner/name | name | url]",
		Short: "Delete a repository",
		Long: `Delete a repository. This cannot be undone.

The token needs the delete_repo scope. The repository defaults to the origin
remote of the current directory; a bare name matching a local draft only
removes the draft.

Examples:
  repodeck repo delete octocat/old-tool
  repodeck repo delete old-tool --yes`,
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			ref, err := c.app.ResolveRef(firstArg(args))
			if err != nil {
				return err
			}

			if !yes {
				p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
				if !p.confirm(fmt.Sprintf("Delete %s? This cannot be undone. [y/N]: ", ref)) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := c.app.DeleteRepository(cmd.Context(), ref); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ref)

			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
