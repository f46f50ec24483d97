package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/store"
)

// ErrNoStations is returned when the master table comes back empty.
var ErrNoStations = errors.New("master table is empty")

// Service runs the scrape pipeline: master table, then month by month
// extraction, fetching, parsing and re-compression.
type Service struct {
	resolver StationResolver
	fetcher  DayFetcher
	archiver Archiver
	sinks    []Sink
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(resolver StationResolver, fetcher DayFetcher, archiver Archiver, sinks []Sink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: resolver,
		fetcher:  fetcher,
		archiver: archiver,
		sinks:    sinks,
		logger:   logger,
	}
}

// Result is what a scrape produced.
type Result struct {
	Stations     []Station
	Observations []Observation
	Months       []string
}

// Scrape fetches every curated station for every date in [start, end].
// Any fetch or archive failure aborts the run; batches already compressed stay valid.
func (s *Service) Scrape(ctx context.Context, start, end time.Time) (Result, error) {
	stations, err := s.masterTable(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Stations: stations}

	for _, bucket := range Plan(start, end) {
		obs, err := s.scrapeMonth(ctx, stations, bucket)
		if err != nil {
			return res, err
		}
		res.Observations = append(res.Observations, obs...)
		res.Months = append(res.Months, bucket.Month)
	}

	if len(res.Months) == 0 {
		s.logger.Warn("empty date range; nothing to fetch",
			"start", start.Format(common.ISODate), "end", end.Format(common.ISODate))
		return res, nil
	}
	for _, sink := range s.sinks {
		if err := sink.WriteObservations(ctx, res.Observations); err != nil {
			return res, fmt.Errorf("export observations: %w", err)
		}
	}
	s.logger.Info("scrape complete", "months", len(res.Months), "observations", len(res.Observations))
	return res, nil
}

func (s *Service) masterTable(ctx context.Context) ([]Station, error) {
	if err := s.archiver.Extract(store.HierarchyBatch); err != nil {
		return nil, fmt.Errorf("extract station pages: %w", err)
	}
	s.logger.Info("generating master data")
	stations, err := s.resolver.BuildMasterTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("build master table: %w", err)
	}
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	for _, sink := range s.sinks {
		if err := sink.WriteMaster(ctx, stations); err != nil {
			return nil, fmt.Errorf("export master table: %w", err)
		}
	}
	if err := s.archiver.Compress(store.HierarchyBatch); err != nil {
		return nil, fmt.Errorf("compress station pages: %w", err)
	}
	return stations, nil
}

func (s *Service) scrapeMonth(ctx context.Context, stations []Station, bucket MonthBucket) ([]Observation, error) {
	if err := s.archiver.Extract(bucket.Month); err != nil {
		return nil, fmt.Errorf("extract %s: %w", bucket.Month, err)
	}
	s.logger.Info("processing month", "month", bucket.Month, "days", len(bucket.Dates))

	var out []Observation
	for _, st := range stations {
		s.logger.Debug("processing station", "region", st.RegionName, "station", st.Name)
		for _, d := range bucket.Dates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			obs, err := s.fetcher.FetchDay(ctx, st, d)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", st.Key(), d.Format(common.ISODate), err)
			}
			if len(obs) == 0 {
				s.logger.Warn("no observations for station-day", "station", st.NameEN, "date", d.Format(common.ISODate))
			}
			out = append(out, obs...)
		}
	}

	if err := s.archiver.Compress(bucket.Month); err != nil {
		return nil, fmt.Errorf("compress %s: %w", bucket.Month, err)
	}
	return out, nil
}
