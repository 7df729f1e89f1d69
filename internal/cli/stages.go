package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/artist"
	"github.com/pfrederiksen/gigradar/internal/calendar"
	"github.com/pfrederiksen/gigradar/internal/config"
	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/logger"
	"github.com/pfrederiksen/gigradar/internal/pipeline"
	"github.com/pfrederiksen/gigradar/internal/scraper"
	"github.com/pfrederiksen/gigradar/internal/storage"
	"github.com/pfrederiksen/gigradar/internal/venue"
)

func newDedupCmd(root *rootOptions) *cobra.Command {
	var input string
	var semantic bool

	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Remove duplicate listings from an events JSON file",
		Long: `Reads events (a JSON array, a snapshot or the output of 'run --format json')
and writes them back with cross-source duplicates removed, category by category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := root.load(cmd)
			if err != nil {
				return err
			}
			events, err := readEventsFrom(cmd, input)
			if err != nil {
				return err
			}

			deps := pipeline.Deps{}
			if semantic {
				llm, err := pipeline.NewGemini(cfg.Gemini)
				if err != nil {
					return err
				}
				if llm != nil {
					deps.Oracle = llm
				}
			} else {
				cfg.Dedup.Semantic = false
			}
			p := pipeline.New(cfg, deps)

			return writeEvents(cmd.OutOrStdout(), dedupInOrder(cmd.Context(), p, events), format)
		},
	}

	cmd.Flags().StringVar(&input, "input", "-", "Events JSON file, or - for stdin")
	cmd.Flags().BoolVar(&semantic, "semantic", false, "Also run the Gemini semantic pass on music (needs GEMINI_API_KEY)")
	return cmd
}

// dedupInOrder dedups each category separately and returns the survivors in
// input order. Records with an empty or unknown category form their own group.
func dedupInOrder(ctx context.Context, p *pipeline.Pipeline, events []event.Event) []event.Event {
	groups := make(map[event.Category][]int)
	var order []event.Category
	unknown := 0
	for i, evt := range events {
		if _, ok := groups[evt.Category]; !ok {
			order = append(order, evt.Category)
		}
		groups[evt.Category] = append(groups[evt.Category], i)
		if !slices.Contains(event.Categories, evt.Category) {
			unknown++
		}
	}
	if unknown > 0 {
		logger.Warn("Events without a known category are deduplicated as one group", logger.Fields{"count": unknown})
	}

	keep := make([]bool, len(events))
	for _, c := range order {
		idx := groups[c]
		group := make([]event.Event, len(idx))
		for j, i := range idx {
			group[j] = events[i]
		}
		// dedup only removes, so survivors are a subsequence of group
		j := 0
		for _, evt := range p.Dedup(ctx, c, group) {
			for j < len(group) && group[j] != evt {
				j++
			}
			if j < len(group) {
				keep[idx[j]] = true
				j++
			}
		}
	}

	kept := make([]event.Event, 0, len(events))
	for i, evt := range events {
		if keep[i] {
			kept = append(kept, evt)
		}
	}
	return kept
}

func newMatchCmd(root *rootOptions) *cobra.Command {
	var input, artistsFile string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Keep only events featuring followed artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := root.load(cmd)
			if err != nil {
				return err
			}
			events, err := readEventsFrom(cmd, input)
			if err != nil {
				return err
			}
			followed, err := followedArtists(cmd, cfg, artistsFile)
			if err != nil {
				return err
			}

			matched := pipeline.New(cfg, pipeline.Deps{}).Match(events, followed)
			return writeEvents(cmd.OutOrStdout(), matched, format)
		},
	}

	cmd.Flags().StringVar(&input, "input", "-", "Events JSON file, or - for stdin")
	cmd.Flags().StringVar(&artistsFile, "artists-file", "", "File with one followed artist per line (default: Spotify)")
	return cmd
}

func followedArtists(cmd *cobra.Command, cfg *config.Config, path string) ([]string, error) {
	if path == "" {
		path = cfg.Artist.File
	}
	if path != "" {
		return artist.LoadFile(path)
	}
	client, err := pipeline.NewSpotify(cfg.Spotify)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, pipeline.ErrNoArtistSource
	}
	return client.FollowedArtists(cmd.Context())
}

func newVenueCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "venue <name>...",
		Short: "Show how venue names are normalized",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := root.load(cmd)
			if err != nil {
				return err
			}
			n := venue.NewNormalizer(cfg.Venues.Table())

			type row struct {
				Raw        string `json:"raw"`
				Normalized string `json:"normalized"`
			}
			rows := make([]row, len(args))
			for i, raw := range args {
				rows[i] = row{Raw: raw, Normalized: n.Normalize(raw)}
			}

			w := cmd.OutOrStdout()
			if format == FormatJSON {
				return writeJSON(w, rows)
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s -> %s\n", r.Raw, r.Normalized)
			}
			return nil
		},
	}
}

func newSourcesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured sources in scrape priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := root.load(cmd)
			if err != nil {
				return err
			}
			sources := pipeline.OrderByPriority(cfg.Sources.Sites, cfg.Sources.Priority)

			w := cmd.OutOrStdout()
			if format == FormatJSON {
				return writeJSON(w, sources)
			}

			if root.verbose {
				fmt.Fprintf(w, "Strategies: %v\n\n", scraper.NewRegistry().Strategies())
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tSTRATEGY\tSCHEDULE\tURL")
			for _, src := range sources {
				schedule := "every run"
				if src.RunOnDay > 0 {
					schedule = fmt.Sprintf("day %d", src.RunOnDay)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", src.Name, src.Category, src.StrategyName(), schedule, src.URL)
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show a stored event by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := root.load(cmd)
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			evt, err := store.FindByID(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == FormatJSON {
				return writeJSON(w, evt)
			}
			writeEventDetail(w, evt)
			return nil
		},
	}
}

// readEventsFrom reads events from path, or from the command's stdin for "-"
type calendarOptions struct {
	output      string
	categories  []string
	includePast bool
	filterOptions
}

func newCalendarCmd(root *rootOptions) *cobra.Command {
	opts := &calendarOptions{}

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export stored events as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			categories, err := parseCategories(opts.categories)
			if err != nil {
				return err
			}
			now := time.Now()
			f, err := opts.filter(now)
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			snapshot, err := store.Load()
			if err != nil {
				return err
			}

			var events []event.Event
			for _, c := range event.Categories {
				if len(categories) > 0 && !slices.Contains(categories, c) {
					continue
				}
				for _, evt := range snapshot.Events(c) {
					if evt.Date.IsZero() || (!opts.includePast && evt.IsPast(now)) {
						continue
					}
					events = append(events, evt)
				}
			}
			events = f.Apply(events)
			sortEvents(events, SortByDate)

			ics := calendar.GenerateICS(events, cfg.Digest.Title, now)
			if ics == "" {
				return errors.New("no events to export")
			}

			if opts.output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(opts.output, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(events), opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "Write the calendar to this file (- for stdout)")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Only export these categories: music, theatre, culture")
	cmd.Flags().BoolVar(&opts.includePast, "include-past", false, "Also export events that already happened")
	opts.addFlags(cmd)

	return cmd
}

func readEventsFrom(cmd *cobra.Command, path string) ([]event.Event, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening events file: %w", err)
		}
		defer f.Close() // nolint:errcheck
		r = f
	}
	return ReadEvents(r)
}

// ReadEvents accepts a JSON array of events, a snapshot, or a run result
func ReadEvents(r io.Reader) ([]event.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing events: invalid JSON")
	}

	parsed := gjson.ParseBytes(data)
	switch {
	case parsed.IsArray():
		var events []event.Event
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("parsing events: %w", err)
		}
		return events, nil
	case parsed.Get("new_events").Exists():
		var out OutputResult
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing events: %w", err)
		}
		return out.NewEvents, nil
	default:
		var snapshot event.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("parsing events: %w", err)
		}
		return snapshot.All(), nil
	}
}
