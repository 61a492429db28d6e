package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/choreworld/choreworld.github.io/internal/catalog"
	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/notify"
	"github.com/choreworld/choreworld.github.io/internal/preview"
	"github.com/choreworld/choreworld.github.io/internal/rotation"
	"github.com/choreworld/choreworld.github.io/internal/site"
	"github.com/choreworld/choreworld.github.io/internal/types"
)

// The bins reminder is specific to the Christchurch flat: whoever the main
// group's rotation gives the bins chore this week gets the message, at their
// endpoint under the chch config filename.
const (
	binsConfigFile = "chch.yaml"
	binsGroupID    = "main"
	binsChoreID    = "bins"
)

// App executes parsed invocations against the configured services. It holds
// only process-wide dependencies; per-command services are wired when the
// command runs so a failure is attributed to the command that needed them.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	clock  types.Clock
	sink   notify.Sink
}

// AppOption customizes an App, primarily for tests.
type AppOption func(*App)

// WithClock substitutes the wall clock.
func WithClock(clock types.Clock) AppOption {
	return func(a *App) {
		a.clock = clock
	}
}

// WithSink substitutes the notification sink.
func WithSink(sink notify.Sink) AppOption {
	return func(a *App) {
		a.sink = sink
	}
}

// NewApp wires an App from the loaded configuration.
func NewApp(cfg *config.Config, logger *slog.Logger, stdout io.Writer, opts ...AppOption) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		clock:  types.RealClock{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one invocation and returns the error the process should exit
// on, if any.
func (a *App) Run(ctx context.Context, inv Invocation) error {
	switch inv.Command {
	case CommandGenerate:
		return a.runGenerate(inv.Generate)
	case CommandNtfyURLs:
		return a.runNtfyURLs(inv.NtfyURLs)
	case CommandNotify:
		return a.runNotify(ctx, inv.Notify)
	case CommandNotifyBins:
		return a.runNotifyBins(ctx, inv.Notify)
	case CommandServe:
		return a.runServe(ctx, inv.Serve)
	case CommandVersion:
		return a.runVersion()
	default:
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			fmt.Sprintf("unhandled command %q", inv.Command), nil)
	}
}

// runGenerate builds the site for the current week and publishes it over
// the output directory.
func (a *App) runGenerate(opts GenerateOptions) error {
	resolver, err := rotation.NewResolver(a.cfg.Rotation, a.clock)
	if err != nil {
		return err
	}
	generator, err := site.NewGenerator(a.cfg.Site, resolver, a.logger)
	if err != nil {
		return err
	}
	return generator.Generate(opts.Output)
}

// runNtfyURLs builds the endpoint table for every rostered person and writes
// it to the requested destination. With --existing, endpoints already issued
// to people still on a roster are carried over.
func (a *App) runNtfyURLs(opts NtfyURLsOptions) error {
	host := opts.Host
	if host == "" {
		host = a.cfg.Ntfy.Host
	}

	existing := types.EndpointTable{}
	if opts.Existing {
		table, err := notify.LoadTableFile(opts.Output)
		if err != nil {
			return err
		}
		existing = table
	}

	rosters := make(map[string][]string)
	for _, page := range site.Pages() {
		cat, err := catalog.Load(filepath.Join(a.cfg.Site.ConfigDir, page.Config))
		if err != nil {
			return err
		}
		rosters[page.Config] = cat.People()
	}

	table := notify.BuildTable(existing, rosters, host)

	if opts.Output == "-" {
		return notify.SaveTable(a.stdout, table, opts.Indent)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return types.NewAppError(types.ErrCodeConfigEndpoints,
			fmt.Sprintf("failed to create endpoints file %s", opts.Output), err)
	}
	if err := notify.SaveTable(f, table, opts.Indent); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return types.NewAppError(types.ErrCodeConfigEndpoints,
			fmt.Sprintf("failed to write endpoints file %s", opts.Output), err)
	}

	a.logger.Info("endpoints table written",
		"path", opts.Output, "sources", len(table))
	return nil
}

// runNotify sends everyone listed in the endpoints table their chores for
// the current week. The table's config filenames decide which catalogs are
// loaded; the week is resolved once so every source sees the same rotation.
// Delivery failures are collected per person and reported together after the
// whole batch has been attempted.
func (a *App) runNotify(ctx context.Context, opts NotifyOptions) error {
	table, err := notify.LoadTableFile(opts.EndpointsFile)
	if err != nil {
		return err
	}

	resolver, err := rotation.NewResolver(a.cfg.Rotation, a.clock)
	if err != nil {
		return err
	}
	sunday, offset := resolver.CurrentWeek()
	a.logger.Info("sending weekly chore notifications",
		"week_of", resolver.FormatDate(sunday),
		"offset", offset,
		"dry_run", opts.DryRun)

	dispatcher := notify.NewDispatcher(a.notifySink(), a.logger, a.cfg.Ntfy, opts.DryRun)

	sources := make([]string, 0, len(table))
	for source := range table {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var failed []notify.Result
	total := 0
	for _, source := range sources {
		cat, err := catalog.Load(filepath.Join(a.cfg.Site.ConfigDir, source))
		if err != nil {
			return err
		}
		assignments, err := rotation.AssignAll(cat, offset)
		if err != nil {
			return err
		}

		collected := notify.CollectPersonChores(cat, assignments)
		deliveries, missing := notify.PlanWeekly(collected, table[source])
		for _, m := range missing {
			a.logger.Error("notification delivery failed",
				"person", m.Delivery.Person, "error", m.Err)
		}

		results := dispatcher.Dispatch(ctx, deliveries)

		total += len(deliveries) + len(missing)
		failed = append(failed, missing...)
		failed = append(failed, notify.Failures(results)...)
	}

	if len(failed) > 0 {
		return notify.PartialFailure(failed, total)
	}
	return nil
}

// runNotifyBins reminds whoever has the bins chore this week which pair
// goes out tonight.
func (a *App) runNotifyBins(ctx context.Context, opts NotifyOptions) error {
	table, err := notify.LoadTableFile(opts.EndpointsFile)
	if err != nil {
		return err
	}

	resolver, err := rotation.NewResolver(a.cfg.Rotation, a.clock)
	if err != nil {
		return err
	}
	sunday, offset := resolver.CurrentWeek()

	cat, err := catalog.Load(filepath.Join(a.cfg.Site.ConfigDir, binsConfigFile))
	if err != nil {
		return err
	}
	group, ok := cat.Group(binsGroupID)
	if !ok {
		return types.NewAppError(types.ErrCodeConfigMissingField,
			fmt.Sprintf("%s has no group %q", binsConfigFile, binsGroupID), nil)
	}
	chore, ok := group.Chore(binsChoreID)
	if !ok {
		return types.NewAppError(types.ErrCodeConfigMissingField,
			fmt.Sprintf("group %q has no chore %q", binsGroupID, binsChoreID), nil)
	}

	assignment, err := rotation.Assign(offset, group)
	if err != nil {
		return err
	}
	person := assignment[chore]

	binsEpoch, err := rotation.ParseDate(a.cfg.Rotation.BinsEpoch, resolver.Location())
	if err != nil {
		return err
	}
	bins := notify.BinsForWeek(binsEpoch, sunday)
	a.logger.Info("sending bins reminder",
		"week_of", resolver.FormatDate(sunday),
		"person", person,
		"bins", bins.First+","+bins.Second,
		"dry_run", opts.DryRun)

	endpoint := table[binsConfigFile][person]
	if endpoint == "" {
		return types.NewAppError(types.ErrCodeNotifyEndpointMissing,
			fmt.Sprintf("no endpoint registered for %s under %s", person, binsConfigFile), nil)
	}

	dispatcher := notify.NewDispatcher(a.notifySink(), a.logger, a.cfg.Ntfy, opts.DryRun)
	results := dispatcher.Dispatch(ctx, []notify.Delivery{{
		Person:   person,
		Endpoint: endpoint,
		Message:  notify.BinsMessage(person, bins),
	}})

	if failures := notify.Failures(results); len(failures) > 0 {
		return failures[0].Err
	}
	return nil
}

// runServe serves a generated site directory until interrupted.
func (a *App) runServe(ctx context.Context, opts ServeOptions) error {
	server, err := preview.NewServer(opts.Addr, opts.Dir, a.logger)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}

// runVersion prints the build metadata baked in at link time.
func (a *App) runVersion() error {
	b := a.cfg.Build
	_, err := fmt.Fprintf(a.stdout, "choreworld %s (commit %s, built %s)\n",
		b.Version, b.Commit, b.BuildTime)
	return err
}

// notifySink returns the configured sink, building the production ntfy
// client on first use.
func (a *App) notifySink() notify.Sink {
	if a.sink == nil {
		a.sink = notify.NewClient(
			&http.Client{Timeout: a.cfg.Ntfy.Timeout},
			notify.DefaultRetryPolicy(),
			a.cfg.Ntfy.UserAgent,
		)
	}
	return a.sink
}
