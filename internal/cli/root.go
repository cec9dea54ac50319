package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Afrawles/weekly/internal/config"
	"github.com/Afrawles/weekly/internal/logger"
	"github.com/Afrawles/weekly/internal/report"
	"github.com/Afrawles/weekly/internal/weekly"
)

type options struct {
	debug        bool
	days         int
	configPath   string
	xlsxPath     string
	csvDir       string
	untriagedAll bool
	cookie       string
	apiKey       string
}

// run is one of Application.Bugs or Application.Reviews.
type run func(app *weekly.Application, ctx context.Context, opts weekly.Options) ([]*report.Table, error)

// NewBugsCommand returns the weekly-bugs command.
func NewBugsCommand() *cobra.Command {
	opts := &options{}
	cmd := newCommand(opts, (*weekly.Application).Bugs)
	cmd.Use = "weekly-bugs TEAM"
	cmd.Short = "Plain text bug summaries of a team from Bugzilla"
	cmd.Long = `weekly-bugs prints, for every project of the team, a status summary and the
untriaged bugs, followed by the bugs the team closed recently and the bugs
it is working on.`

	cmd.Flags().BoolVar(&opts.untriagedAll, "untriaged-all", false, "Include untriaged bugs that already have an owner")
	cmd.Flags().StringVar(&opts.cookie, "cookie", "", "Bugzilla session cookie (or WEEKLY_BUGZILLA_COOKIE)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Bugzilla API key (or WEEKLY_BUGZILLA_API_KEY)")
	return cmd
}

// NewReviewsCommand returns the weekly-reviews command.
func NewReviewsCommand() *cobra.Command {
	opts := &options{}
	cmd := newCommand(opts, (*weekly.Application).Reviews)
	cmd.Use = "weekly-reviews TEAM"
	cmd.Short = "Plain text review summaries of a team from Gerrit"
	cmd.Long = `weekly-reviews prints, for every Gerrit project of the team, the changes
owned and the changes reviewed by its people during the last days.`
	return cmd
}

func newCommand(opts *options, fn run) *cobra.Command {
	cmd := &cobra.Command{
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, fn, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Debug mode")
	cmd.Flags().IntVar(&opts.days, "days", weekly.DefaultDays, "Number of days to cover")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ./weekly.yaml or ~/.config/weekly/weekly.yaml)")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Also save the reports to this Excel workbook")
	cmd.Flags().StringVar(&opts.csvDir, "csv", "", "Also save every report as a CSV file in this directory")
	return cmd
}

func execute(cmd *cobra.Command, opts *options, fn run, team string) error {
	log := logger.New(cmd.ErrOrStderr(), opts.debug)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.cookie != "" {
		cfg.Bugzilla.Cookie = opts.cookie
	}
	if opts.apiKey != "" {
		cfg.Bugzilla.APIKey = opts.apiKey
	}

	app := weekly.New(cfg, log, cmd.OutOrStdout())
	if !opts.debug {
		app.Progress = &spinner{out: cmd.ErrOrStderr()}
	}

	tables, runErr := fn(app, cmd.Context(), weekly.Options{
		Team:       team,
		Days:       opts.days,
		IncludeAll: opts.untriagedAll,
	})
	// Configuration and argument problems end the run before any output.
	var sectionsErr *report.SectionsError
	if runErr != nil && !errors.As(runErr, &sectionsErr) {
		return runErr
	}

	if err := app.Export(tables, opts.xlsxPath, opts.csvDir); err != nil {
		log.Error().Err(err).Msg("export failed")
	}
	return runErr
}

// Execute runs cmd and exits with status 1 after printing a one-line error.
func Execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		PrintError(os.Stdout, err)
		os.Exit(1)
	}
}

func PrintError(w io.Writer, err error) {
	red := color.New(color.FgHiRed, color.Bold)
	fmt.Fprintf(w, "%s %v\n", red.Sprint("ERROR:"), err)
}
