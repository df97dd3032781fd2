package cmd

import (
	"errors"
	"fmt"

	"github.com/inovacc/repodeck/internal/application"
	"github.com/inovacc/repodeck/internal/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a username and personal access token",
		Long: `Store the GitHub username and personal access token used for every request.

Missing values are prompted for; the token is read without echo. Any
previously stored credentials are replaced.

Examples:
  repodeck login
  repodeck login --username octocat
  echo "$TOKEN" | repodeck login --username octocat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			token, _ := cmd.Flags().GetString("token")

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

			var err error

			if username == "" {
				if username, err = p.line("Username: "); err != nil {
					return err
				}
			}

			if token == "" {
				if token, err = p.secret("Personal access token: "); err != nil {
					return err
				}
			}

			ok, err := c.app.Credentials.Login(username, token)
			if err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			if !ok {
				return errors.New("both username and token are required")
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)

			return nil
		},
	}

	cmd.Flags().String("username", "", "GitHub username")
	cmd.Flags().String("token", "", "Personal access token (prompted when omitted)")

	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Credentials.Logout(); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

type statusView struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	TokenSource   string `json:"tokenSource,omitempty"`
	APIURL        string `json:"apiUrl"`
	Storage       string `json:"storage"`
	AutoPrune     bool   `json:"autoPrune"`
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication and storage status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := statusView{
				Authenticated: c.app.Credentials.IsAuthenticated(),
				APIURL:        c.cfg.API.BaseURL,
				Storage:       c.cfg.Storage.Driver,
				AutoPrune:     c.cfg.Drafts.AutoPrune,
			}

			view.Username, _ = c.app.Credentials.Username()

			if res, err := c.app.Tokens.Resolve(); err == nil {
				view.TokenSource = res.Name
			} else if !errors.Is(err, auth.ErrNoToken) {
				return err
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), view)
			}

			out := cmd.OutOrStdout()

			if view.Authenticated {
				_, _ = fmt.Fprintf(out, "Logged in as: %s\n", view.Username)
			} else {
				_, _ = fmt.Fprintf(out, "Not logged in (run '%s login')\n", application.AppName)
			}

			if view.TokenSource != "" {
				_, _ = fmt.Fprintf(out, "Token source: %s\n", view.TokenSource)
			} else {
				_, _ = fmt.Fprintln(out, "Token source: none")
			}

			_, _ = fmt.Fprintf(out, "API:          %s\n", view.APIURL)
			_, _ = fmt.Fprintf(out, "Storage:      %s\n", view.Storage)
			_, _ = fmt.Fprintf(out, "Auto-prune:   %t\n", view.AutoPrune)

			return nil
		},
	}
}
