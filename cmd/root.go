package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/inovacc/repodeck/internal/application"
	"github.com/inovacc/repodeck/internal/config"
	"github.com/inovacc/repodeck/internal/repos"
	"github.com/spf13/cobra"
)

// cli carries the global flags and the App built for the running command.
type cli struct {
	configPath string
	apiURL     string
	verbose    bool
	jsonOut    bool

	cfg    *config.Config
	app    *application.App
	logger *slog.Logger
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   application.AppName,
		Short: "Manage your GitHub repositories with a personal access token",
		Long: `Repodeck lists, creates, edits and deletes the repositories of the
authenticated GitHub user. Repositories created with repodeck are saved
locally and shown ahead of the server listing.

Authentication:
  The token is taken from (in order):
  - GITHUB_API_TOKEN environment variable
  - auth.token in the config file (or REPODECK_AUTH_TOKEN)
  - credentials stored with 'repodeck login'
  - gh CLI, when auth.use_gh_cli is enabled`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default: <config dir>/repodeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Output as JSON")

	rootCmd.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newStatusCmd(c),
		newWhoamiCmd(c),
		newRepoCmd(c),
		newDraftCmd(c),
		newConfigCmd(c),
	)

	return rootCmd
}

// Execute runs the CLI. SIGINT cancels the in-flight request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run executes one command line and releases local storage afterwards.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{}

	rootCmd := newRootCmd(c)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)

	return errors.Join(err, c.teardown())
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	var searchDir string

	if c.configPath == "" {
		dir, err := application.GetApplicationDirectory()
		if err != nil {
			return err
		}

		searchDir = dir
	}

	cfg, err := config.Load(c.configPath, searchDir)
	if err != nil {
		return err
	}

	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL

		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	c.cfg = cfg
	c.logger = newLogger(cmd.ErrOrStderr(), cfg.Log, c.verbose, c.jsonOut)

	app, err := application.New(cfg, c.logger)
	if err != nil {
		return err
	}

	c.app = app
	c.logger.Debug("ready",
		slog.String("api", cfg.API.BaseURL),
		slog.String("storage", cfg.Storage.Driver),
	)

	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}

	err := c.app.Close()
	c.app = nil

	return err
}

// printError writes err and, where one exists, the next step for the user.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var repoErr *repos.Error
	if errors.As(err, &repoErr) && repoErr.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "Try another name, for example %q.\n", repoErr.Suggestion)
	}

	if errors.Is(err, repos.ErrAuth) {
		_, _ = fmt.Fprintf(w, "Run '%s login' to authenticate.\n", application.AppName)
	}
}
