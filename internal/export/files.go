package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/i474232898/jma-weather-archive/internal/weather"
)

const (
	// MasterFile is the master table export.
	MasterFile = "weather_japan_master.csv"
	// ObservationsFile is the raw observation export.
	ObservationsFile = "weather_japan_org.csv"
)

// ValidFile names the wide export of stations without missing values.
func ValidFile(lower, upper string, stations int) string {
	return fmt.Sprintf("weather_japan_%s_%s_%d_blocks.csv", lower, upper, stations)
}

// CSVSink writes the exports into a directory.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink creates dir if needed.
func NewCSVSink(dir string, logger *slog.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{dir: dir, logger: logger}, nil
}

// Dir returns the output directory.
func (s *CSVSink) Dir() string {
	return s.dir
}

// WriteMaster writes MasterFile.
func (s *CSVSink) WriteMaster(_ context.Context, stations []weather.Station) error {
	return s.WriteFile(MasterFile, func(w io.Writer) error { return WriteMaster(w, stations) })
}

// WriteObservations writes ObservationsFile.
func (s *CSVSink) WriteObservations(_ context.Context, observations []weather.Observation) error {
	return s.WriteFile(ObservationsFile, func(w io.Writer) error { return WriteObservations(w, observations) })
}

// WriteFile writes name in the output directory through a temporary file.
func (s *CSVSink) WriteFile(name string, write func(io.Writer) error) (err error) {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		s.logger.Info("generated", "path", path, "size_mb", fmt.Sprintf("%.2f", float64(info.Size())/(1024*1024)))
	}
	return nil
}

// ErrNoDataset is returned when the exports of a previous scrape are absent.
var ErrNoDataset = errors.New("dataset not found")

// Dataset reads the exports of a previous scrape.
type Dataset struct {
	Dir string
}

// Load reads the master table and the raw observations.
func (d Dataset) Load() ([]weather.Station, []weather.Observation, error) {
	master, err := readFile(filepath.Join(d.Dir, MasterFile), ReadMaster)
	if err != nil {
		return nil, nil, err
	}
	obs, err := readFile(filepath.Join(d.Dir, ObservationsFile), ReadObservations)
	if err != nil {
		return nil, nil, err
	}
	return master, obs, nil
}

// Master reads the master table only.
func (d Dataset) Master() ([]weather.Station, error) {
	return readFile(filepath.Join(d.Dir, MasterFile), ReadMaster)
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", ErrNoDataset, path)
		}
		return zero, err
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
