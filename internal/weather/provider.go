package weather

import (
	"context"
	"time"
)

// StationResolver builds the curated master table of stations.
type StationResolver interface {
	BuildMasterTable(ctx context.Context) ([]Station, error)
}

// DayFetcher retrieves one station-day page and parses it into observations.
type DayFetcher interface {
	FetchDay(ctx context.Context, st Station, date time.Time) ([]Observation, error)
}

// Archiver moves a batch of cache entries between loose files and a compressed archive.
type Archiver interface {
	Extract(batch string) error
	Compress(batch string) error
}

// Sink receives the exported datasets of a run.
type Sink interface {
	WriteMaster(ctx context.Context, stations []Station) error
	WriteObservations(ctx context.Context, observations []Observation) error
}
