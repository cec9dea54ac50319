package weekly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Afrawles/weekly/internal/bugzilla"
	"github.com/Afrawles/weekly/internal/config"
	"github.com/Afrawles/weekly/internal/gerrit"
	"github.com/Afrawles/weekly/internal/report"
)

const DefaultDays = 7

// Options are the per-invocation inputs of a run.
type Options struct {
	Team       string
	Days       int
	IncludeAll bool
	Now        time.Time
}

func (o Options) validate() error {
	if o.Days < 0 {
		return report.ConfigError("days", fmt.Errorf("must not be negative, got %d", o.Days))
	}
	return nil
}

// Application wires configuration, transports and output together.
type Application struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Out      io.Writer
	Progress report.Progress
	Location *time.Location

	// Bugzilla overrides the HTTP client built from Config.
	Bugzilla bugzilla.Fetcher
	// Gerrit overrides the SSH runner built from a team's settings.
	Gerrit func(config.TeamGerrit) gerrit.Runner
}

func New(cfg *config.Config, logger zerolog.Logger, out io.Writer) *Application {
	return &Application{
		Config:   cfg,
		Logger:   logger,
		Out:      out,
		Location: time.Local,
	}
}

// Bugs writes the bug reports of a team. The team is resolved before any
// request is made.
func (app *Application) Bugs(ctx context.Context, opts Options) ([]*report.Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	team, err := app.Config.Team(opts.Team)
	if err != nil {
		return nil, err
	}

	fetcher := app.Bugzilla
	if fetcher == nil {
		session := bugzilla.StaticSession{Cookie: app.Config.Bugzilla.Cookie, APIKey: app.Config.Bugzilla.APIKey}
		fetcher = bugzilla.NewClient(session, app.Config.Bugzilla.Rate, app.Logger)
	}

	reporter := &bugzilla.Reporter{
		Fetcher:      fetcher,
		URL:          app.Config.Bugzilla.URL,
		DefaultOwner: app.Config.Bugzilla.DefaultOwner,
		Location:     app.Location,
		Log:          app.Logger,
	}
	params := report.Params{
		Team:        team.Name,
		Projects:    team.Projects,
		People:      team.People,
		Days:        opts.Days,
		IncludeAll:  opts.IncludeAll,
		EmailDomain: app.Config.EmailDomain,
		Now:         app.now(opts),
	}

	app.Logger.Debug().Str("team", team.Name).Int("days", opts.Days).Msg("generating bug reports")
	return app.generate(ctx, reporter.Sections(params))
}

// Reviews writes the review reports of a team.
func (app *Application) Reviews(ctx context.Context, opts Options) ([]*report.Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	team, err := app.Config.Team(opts.Team)
	if err != nil {
		return nil, err
	}
	if len(team.Gerrit.Projects) == 0 {
		return nil, report.ConfigError(fmt.Sprintf("team %q", team.Name), errors.New("no gerrit projects configured"))
	}

	var runner gerrit.Runner
	if app.Gerrit != nil {
		runner = app.Gerrit(team.Gerrit)
	} else {
		runner = gerrit.NewSSHRunner(gerrit.SSHConfig{
			User:       team.Gerrit.QueryUser,
			Server:     team.Gerrit.QueryServer,
			Port:       team.Gerrit.QueryPort,
			KeyFile:    app.Config.Gerrit.KeyFile,
			KnownHosts: app.Config.Gerrit.KnownHosts,
			Insecure:   app.Config.Gerrit.Insecure,
		}, app.Logger)
	}

	reporter := &gerrit.Reporter{
		Runner:        runner,
		ProjectPrefix: app.Config.Gerrit.ProjectPrefix,
		Location:      app.Location,
		Log:           app.Logger,
	}
	params := report.Params{
		Team:        team.Name,
		Projects:    team.Gerrit.Projects,
		People:      team.Gerrit.People,
		Days:        opts.Days,
		EmailDomain: app.Config.EmailDomain,
		Now:         app.now(opts),
	}

	app.Logger.Debug().Str("team", team.Name).Int("days", opts.Days).Msg("generating review reports")
	return app.generate(ctx, reporter.Sections(params))
}

// Export saves the rendered tables as a workbook and/or CSV files. Empty
// paths are skipped.
func (app *Application) Export(tables []*report.Table, xlsxPath, csvDir string) error {
	var errs []error
	if xlsxPath != "" {
		if err := report.NewExcelExporter(xlsxPath).Export(tables); err != nil {
			errs = append(errs, err)
		} else {
			app.Logger.Info().Str("file", xlsxPath).Int("sheets", len(tables)).Msg("workbook exported")
		}
	}
	if csvDir != "" {
		paths, err := report.NewCSVExporter(csvDir).Export(tables)
		if err != nil {
			errs = append(errs, err)
		}
		for _, p := range paths {
			app.Logger.Info().Str("file", p).Msg("csv exported")
		}
	}
	return errors.Join(errs...)
}

func (app *Application) generate(ctx context.Context, sections []report.Section) ([]*report.Table, error) {
	gen := report.NewGenerator(app.Logger)
	gen.Progress = app.Progress
	return gen.Generate(ctx, app.Out, sections...)
}

func (app *Application) now(opts Options) time.Time {
	if opts.Now.IsZero() {
		return time.Now()
	}
	return opts.Now
}
