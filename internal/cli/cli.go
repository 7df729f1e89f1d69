package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gigradar/internal/config"
	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/filter"
	"github.com/pfrederiksen/gigradar/internal/logger"
	"github.com/pfrederiksen/gigradar/internal/metrics"
	"github.com/pfrederiksen/gigradar/internal/pipeline"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

// errNewEvents carries ExitNewEvents out of a successful run
var errNewEvents = errors.New("new events found")

var version = "dev"

// buildPipeline is replaced in tests
var buildPipeline = pipeline.Build

type rootOptions struct {
	configFile string
	dataDir    string
	format     string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gigradar",
		Short: "Weekly digest of new concerts, plays and exhibitions in Bucharest",
		Long: `gigradar scrapes Bucharest venue and ticketing sites, removes duplicate
listings across sources, and reports the events added since the last run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory for the snapshot (overrides data_dir)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newRunCmd(opts),
		newDedupCmd(opts),
		newMatchCmd(opts),
		newVenueCmd(opts),
		newSourcesCmd(opts),
		newShowCmd(opts),
		newCalendarCmd(opts),
	)
	return cmd
}

// load reads the configuration, applies flag overrides and installs the logger
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return nil, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, "", err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if o.verbose {
		cfg.Log.Level = logger.LevelDebug
	}

	log, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		return nil, "", fmt.Errorf("initializing logger: %w", err)
	}
	logger.SetDefault(log)

	return cfg, format, nil
}

type runOptions struct {
	personalized bool
	artistsFile  string
	dryRun       bool
	metricsFile  string
	categories   []string
	sortOrder    string
	filterOptions
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape all sources and deliver the digest of new events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.personalized, "personalized", false, "Only report concerts by followed artists")
	cmd.Flags().StringVar(&opts.artistsFile, "artists-file", "", "File with one followed artist per line (instead of Spotify)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the digest without saving or sending anything")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Only scrape these categories: music, theatre, culture")
	cmd.Flags().StringVar(&opts.sortOrder, "sort", "", "Sort output by: date, venue or title")
	opts.addFlags(cmd)

	return cmd
}

func runPipeline(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	cfg, format, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer logger.Default().Sync() // nolint:errcheck

	categories, err := parseCategories(opts.categories)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(opts.sortOrder)
	if err != nil {
		return err
	}
	f, err := opts.filter(time.Now())
	if err != nil {
		return err
	}

	recorder := metrics.New()
	p, err := buildPipeline(cfg, cmd.OutOrStdout(), opts.dryRun, recorder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := p.Run(ctx, pipeline.Options{
		Personalized: opts.personalized,
		ArtistsFile:  opts.artistsFile,
		DryRun:       opts.dryRun,
		Categories:   categories,
		Filter:       f,
	})
	if result == nil {
		return runErr
	}

	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			logger.Error("Failed to write metrics", logger.Fields{"path": opts.metricsFile}, err)
		}
	}

	out := NewOutputResult(result)
	sortEvents(out.NewEvents, order)
	if err := WriteOutput(cmd.OutOrStdout(), out, format, root.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if runErr != nil {
		return runErr
	}
	if out.EventCount > 0 {
		return errNewEvents
	}
	return nil
}

type filterOptions struct {
	dates        string
	venues       []string
	keywords     []string
	weekendsOnly bool
}

func (o *filterOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.dates, "dates", "", "Only include events in this range (e.g. 'Mar 1-15', 'martie', '2026-03-01..2026-03-15')")
	cmd.Flags().StringSliceVar(&o.venues, "venue", nil, "Only include events at venues containing this name")
	cmd.Flags().StringSliceVar(&o.keywords, "keyword", nil, "Only include events whose title or artist contains this word")
	cmd.Flags().BoolVar(&o.weekendsOnly, "weekends-only", false, "Only include events on Saturday or Sunday")
}

// filter builds an event filter from the flags
func (o *filterOptions) filter(now time.Time) (*filter.Filter, error) {
	f := filter.New()
	if o.dates != "" {
		from, to, err := filter.ParseDateRange(o.dates, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	f.Venues = append(f.Venues, o.venues...)
	f.Keywords = append(f.Keywords, o.keywords...)
	f.WeekendsOnly = o.weekendsOnly

	if !f.IsEmpty() {
		logger.Debug("Event filter active", logger.Fields{"filter": f.String()})
	}
	return f, nil
}

func parseCategories(names []string) ([]event.Category, error) {
	var out []event.Category
	for _, name := range names {
		c := event.Category(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(event.Categories, c) {
			return nil, fmt.Errorf("invalid category: %s", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// ExitCode maps an Execute error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errNewEvents):
		return ExitNewEvents
	default:
		return ExitError
	}
}

// Run executes the CLI with args and returns the exit status
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errNewEvents) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
