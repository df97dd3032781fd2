package cmd

import (
	"fmt"

	"github.com/inovacc/repodeck/internal/model"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user's profile",
		Long: `Show the profile of the user owning the active token.

When the profile cannot be fetched a placeholder profile is shown and a
warning is logged. Use --strict to fail with the underlying error instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strict, _ := cmd.Flags().GetBool("strict")

			var profile model.UserProfile

			if strict {
				p, err := c.app.Repos.GetUser(cmd.Context())
				if err != nil {
					return err
				}

				profile = *p
			} else {
				profile = c.app.Repos.GetUserInfo(cmd.Context())
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), profile)
			}

			printProfile(cmd, profile)

			return nil
		},
	}

	cmd.Flags().Bool("strict", false, "Fail instead of showing a placeholder profile")

	return cmd
}

func printProfile(cmd *cobra.Command, p model.UserProfile) {
	out := cmd.OutOrStdout()

	if p.IsUnknown() {
		_, _ = fmt.Fprintln(out, "Profile unavailable (check your token or network)")
	}

	_, _ = fmt.Fprintf(out, "Login:        %s\n", titleStyle.Render(p.Login))

	if name := model.StringValue(p.Name); name != "" {
		_, _ = fmt.Fprintf(out, "Name:         %s\n", name)
	}

	if bio := model.StringValue(p.Bio); bio != "" {
		_, _ = fmt.Fprintf(out, "Bio:          %s\n", bio)
	}

	if loc := model.StringValue(p.Location); loc != "" {
		_, _ = fmt.Fprintf(out, "Location:     %s\n", loc)
	}

	_, _ = fmt.Fprintf(out, "Public repos: %d\n", p.PublicRepos)
	_, _ = fmt.Fprintf(out, "Followers:    %d\n", p.Followers)
	_, _ = fmt.Fprintf(out, "Following:    %d\n", p.Following)
	_, _ = fmt.Fprintf(out, "Avatar:       %s\n", model.StringValue(p.AvatarURL))
}
