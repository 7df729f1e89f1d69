// Package cli implements the command-line interface for gigradar.
//
// The root command loads the YAML configuration and sets up logging. The run
// subcommand executes the full pipeline and exits with status 2 when new
// events were found, so schedulers can react to it. The remaining
// subcommands expose the individual stages (dedup, match, venue) and the
// stored snapshot (show, calendar) for inspection and scripting.
package cli
