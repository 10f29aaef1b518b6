// Package main provides the fetchanything command: crawl a site from a seed URL and download matching files.
package main

import (
	"github.com/spf13/cobra"

	"fetchanything/pkg/config"
)

const filterHelp = `Filename pattern tested against the last path segment of every visited URL.
'*' matches any run of characters and a leading '*' is always implied, so
'report' matches 'annual-report.pdf'. Other characters keep their regular
expression meaning: '.' matches any character and the pattern is not anchored
at the end, so '*.pdf' also matches 'x.pdf.html'.`

// options holds the raw flag values; only flags the user actually set override the config file
type options struct {
	configFile   string
	level        int
	filter       string
	out          string
	verbose      bool
	logFormat    string
	visitedStore string
	userAgent    string
	noProgress   bool
}

// newRootCmd creates the fetchanything command. run is invoked with the merged configuration and the seed URL
func newRootCmd(run func(cmd *cobra.Command, cfg config.AppConfig, configFile, seed string) error) *cobra.Command {
	opts := &options{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "fetchanything <url>",
		Short: "Crawl a website and download the files whose names match a pattern",
		Long: `fetchanything crawls a website depth-first starting from a seed URL, following
links up to --level hops, and downloads every visited URL whose filename matches
--filter into --out. Failed pages and downloads are logged and skipped.`,
		Example: `  fetchanything https://example.com/docs/ --level 3 --filter '*.pdf' --out ./pdfs
  fetchanything https://example.com/ --config fetch.yaml -v`,
		Args:          cobra.ExactArgs(1),
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if opts.configFile != "" {
				if err := config.LoadFile(opts.configFile, &cfg); err != nil {
					return err
				}
			}
			applyFlags(cmd, opts, &cfg)
			return run(cmd, cfg, opts.configFile, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	flags.IntVar(&opts.level, "level", defaults.Level, "Maximum number of link hops from the seed (negative values are treated as 0: only the seed is processed)")
	flags.StringVar(&opts.filter, "filter", defaults.Filter, filterHelp)
	flags.StringVar(&opts.out, "out", defaults.OutputDir, "Directory downloaded files are written to (created if missing)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.logFormat, "log-format", defaults.LogFormat, "Log format: text or json")
	flags.StringVar(&opts.visitedStore, "visited-store", defaults.VisitedStore, "Visited set backend: memory or badger (in-memory BadgerDB)")
	flags.StringVar(&opts.userAgent, "user-agent", defaults.UserAgent, "User-Agent header sent with every request")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable the per-file progress line")

	return cmd
}

// applyFlags copies explicitly set flags over cfg
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.AppConfig) {
	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = opts.level
	}
	if flags.Changed("filter") {
		cfg.Filter = opts.filter
	}
	if flags.Changed("out") {
		cfg.OutputDir = opts.out
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("visited-store") {
		cfg.VisitedStore = opts.visitedStore
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = opts.userAgent
	}
	if flags.Changed("no-progress") {
		cfg.NoProgress = opts.noProgress
	}
}
