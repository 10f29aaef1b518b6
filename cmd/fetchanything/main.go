package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fetchanything/pkg/config"
	"fetchanything/pkg/crawler"
	"fetchanything/pkg/download"
	"fetchanything/pkg/fetch"
	"fetchanything/pkg/models"
	"fetchanything/pkg/process"
	"fetchanything/pkg/storage"
	"fetchanything/pkg/utils"
)

// errLogged marks an error that has already been reported through the logger
var errLogged = errors.New("already logged")

func main() {
	cmd := newRootCmd(func(cmd *cobra.Command, cfg config.AppConfig, configFile, seed string) error {
		log := newLogger(cmd.ErrOrStderr())
		if err := execute(cmd.Context(), log, cfg, configFile, seed, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("%w: %w", errLogged, err)
		}
		return nil
	})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errLogged) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// newLogger returns the process logger with the default text format; execute reconfigures it once the config is final
func newLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// configureLogger applies the verbosity and format settings of cfg
func configureLogger(log *logrus.Logger, cfg *config.AppConfig) {
	if cfg.LogFormat == config.LogFormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	}
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

// execute validates cfg, runs one crawl for seed and logs the summary.
// Every returned error has been logged; a nil error means exit status 0
func execute(ctx context.Context, log *logrus.Logger, cfg config.AppConfig, configFile, seed string, progressOut io.Writer) error {
	configureLogger(log, &cfg)
	runLog := log.WithField("crawl_id", uuid.NewString())

	if configFile != "" {
		runLog.Infof("Loaded configuration from %s", configFile)
	}
	warnings, err := cfg.Validate()
	for _, w := range warnings {
		runLog.Warn(w)
	}
	if err != nil {
		runLog.WithField("error_type", utils.CategorizeError(err)).Errorf("Configuration error: %v", err)
		return err
	}
	// Validate may have changed the format (unknown value)
	configureLogger(log, &cfg)
	logAppConfig(&cfg, runLog)

	req, err := cfg.Request(seed)
	if err != nil {
		runLog.WithField("error_type", utils.CategorizeError(err)).Errorf("Invalid URL: %v", err)
		return err
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		err = fmt.Errorf("%w: creating output dir '%s': %w", utils.ErrFilesystem, req.OutputDir, err)
		runLog.WithField("error_type", utils.CategorizeError(err)).Error(err)
		return err
	}

	if cfg.NoProgress {
		progressOut = nil
	}
	stats, err := crawl(ctx, runLog, &cfg, req, progressOut)
	logStats(runLog, stats)

	switch {
	case err == nil:
		runLog.Info("Crawl completed.")
		return nil
	case errors.Is(err, utils.ErrInterrupted):
		runLog.Warnf("Crawl interrupted by user: %v", err)
	default:
		runLog.WithField("error_type", utils.CategorizeError(err)).Errorf("Crawl failed: %v", err)
	}
	return err
}

// crawl builds the components for req and runs the engine under a supervisor that turns
// SIGINT/SIGTERM into utils.ErrInterrupted. A second signal is not caught and kills the process.
// progressOut may be nil to disable the progress line
func crawl(ctx context.Context, log *logrus.Entry, cfg *config.AppConfig, req models.CrawlRequest, progressOut io.Writer) (stats models.CrawlStats, err error) {
	visited, err := storage.NewVisitedSet(cfg.VisitedStore, log)
	if err != nil {
		return stats, utils.WrapErrorf(err, "opening %s visited set", cfg.VisitedStore)
	}
	defer func() {
		if errClose := visited.Close(); errClose != nil {
			log.Warnf("Error closing visited set: %v", errClose)
		}
	}()

	httpClient := fetch.NewClient(cfg.HTTPClientSettings, log)
	fetcher := fetch.NewFetcher(httpClient, cfg.UserAgent, log)

	var progress download.Progress = download.NopProgress{}
	if progressOut != nil {
		progress = download.NewBarProgress(progressOut)
	}

	engine, err := crawler.NewEngine(req, visited,
		process.NewLinkExtractor(fetcher, log),
		download.NewDownloader(fetcher, progress, log),
		log)
	if err != nil {
		return stats, utils.WrapErrorf(err, "building crawl engine")
	}

	g, gctx := errgroup.WithContext(ctx)
	crawlDone := make(chan struct{})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Stopping crawl...", sig)
			return fmt.Errorf("%w: received %v", utils.ErrInterrupted, sig)
		case <-crawlDone:
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() (errRun error) {
		defer close(crawlDone)
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("PANIC during crawl: %v\n%s", r, debug.Stack())
				errRun = fmt.Errorf("panic during crawl: %v", r)
			}
		}()
		stats, errRun = engine.Run(gctx)
		return errRun
	})

	err = g.Wait()
	return stats, err
}

// logAppConfig logs the effective configuration at debug level
func logAppConfig(cfg *config.AppConfig, log *logrus.Entry) {
	log.Debugf("Config: Level:%d, Filter:'%s', Out:%s, VisitedStore:%s, UserAgent:'%s'",
		cfg.Level, cfg.Filter, cfg.OutputDir, cfg.VisitedStore, cfg.UserAgent)
	h := cfg.HTTPClientSettings
	log.Debugf("Config HTTP Client: Timeout:%v, ResponseHeaderTimeout:%v, MaxIdlePerHost:%d, DialerTimeout:%v, MaxRedirects:%d",
		h.Timeout, h.ResponseHeaderTimeout, h.MaxIdleConnsPerHost, h.DialerTimeout, h.MaxRedirects)
}

// logStats logs the end-of-run summary
func logStats(log *logrus.Entry, stats models.CrawlStats) {
	fields := logrus.Fields{
		"pages_visited":       stats.PagesVisited,
		"downloads_attempted": stats.DownloadsAttempted,
		"downloads_succeeded": stats.DownloadsSucceeded,
		"downloads_failed":    stats.DownloadsFailed,
		"bytes_written":       stats.BytesWritten,
		"duration":            stats.Duration.Round(time.Millisecond).String(),
	}
	for reason, n := range stats.Skipped {
		fields["skipped_"+reason.String()] = n
	}
	log.WithFields(fields).Infof("Summary: %d pages visited, %d/%d downloads succeeded (%s)",
		stats.PagesVisited, stats.DownloadsSucceeded, stats.DownloadsAttempted, humanize.IBytes(uint64(stats.BytesWritten)))
}
