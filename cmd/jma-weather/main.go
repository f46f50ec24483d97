package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i474232898/jma-weather-archive/internal/archive"
	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/config"
	"github.com/i474232898/jma-weather-archive/internal/export"
	"github.com/i474232898/jma-weather-archive/internal/jma"
	"github.com/i474232898/jma-weather-archive/internal/logging"
	"github.com/i474232898/jma-weather-archive/internal/store"
	"github.com/i474232898/jma-weather-archive/internal/weather"
)

const appName = "jma-weather"

const usage = `usage:
  jma-weather scrape START END                        (dates as YYYY-MM-DD)
  jma-weather validate [-o] [-variable NAME] LOWER UPPER
  jma-weather serve`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg, appName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "scrape":
		err = runScrape(ctx, cfg, logger, args)
	case "validate":
		err = runValidate(cfg, logger, os.Stdout, args)
	case "serve":
		err = runServe(ctx, cfg, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("run failed", "command", os.Args[1], "error", err)
		stop()
		os.Exit(1)
	}
}

func runScrape(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("scrape needs START and END dates")
	}
	start, err := common.ParseDate(fs.Arg(0))
	if err != nil {
		return err
	}
	end, err := common.ParseDate(fs.Arg(1))
	if err != nil {
		return err
	}

	cache, err := store.NewFileStore(cfg.CacheDir)
	if err != nil {
		return err
	}
	archiver, err := archive.NewManager(cache, cfg.ArchiveDir, archive.Options{
		KeepLoose: cfg.KeepLooseCache,
		Logger:    logger.With("component", "archive"),
	})
	if err != nil {
		return err
	}

	// Shared HTTP client for every outbound page fetch.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := jma.NewClient(httpClient, cache, jma.Options{
		BaseURL: cfg.BaseURL,
		Delay:   cfg.FetchDelay,
		Backoff: jma.BackoffConfig{
			MaxRetries:      cfg.FetchMaxRetries,
			InitialInterval: time.Second,
			MaxInterval:     30 * time.Second,
		},
		Logger: logger.With("component", "fetcher"),
	})

	catalog, err := jma.DefaultCatalog()
	if err != nil {
		return err
	}
	resolver := jma.NewResolver(client, catalog, logger.With("component", "resolver"))

	csvSink, err := export.NewCSVSink(cfg.OutDir, logger)
	if err != nil {
		return err
	}
	sinks := []weather.Sink{csvSink}
	if cfg.SQLitePath != "" {
		db, err := export.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	res, err := weather.NewService(resolver, client, archiver, sinks, logger).Scrape(ctx, start, end)
	if err != nil {
		return err
	}
	logger.Info("scrape finished",
		"stations", len(res.Stations),
		"observations", len(res.Observations),
		"months", res.Months,
	)
	return nil
}

func runValidate(cfg *config.AppConfig, logger *slog.Logger, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	emit := fs.Bool("o", false, "write the wide export of stations without missing values")
	varName := fs.String("variable", string(weather.VarTemperature), "variable to check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("validate needs LOWER and UPPER dates")
	}
	lower, upper := fs.Arg(0), fs.Arg(1)
	for _, d := range []string{lower, upper} {
		if _, err := common.ParseDate(d); err != nil {
			return err
		}
	}
	v, err := weather.ParseVariable(*varName)
	if err != nil {
		return err
	}

	master, obs, err := export.Dataset{Dir: cfg.OutDir}.Load()
	if err != nil {
		return err
	}
	report, err := weather.Validate(obs, master, v, weather.ValidateOptions{
		Lower:       lower,
		Upper:       upper,
		MaxExamples: 3,
		SourceURL:   jma.SourceURL(cfg.BaseURL),
	})
	if err != nil {
		return err
	}
	if err := report.Render(out, 3, 3); err != nil {
		return err
	}
	if !*emit {
		return nil
	}

	sink, err := export.NewCSVSink(cfg.OutDir, logger)
	if err != nil {
		return err
	}
	table := report.CompleteTable()
	return sink.WriteFile(export.ValidFile(lower, upper, report.CompleteStations), func(w io.Writer) error {
		return export.WriteWide(w, table)
	})
}
