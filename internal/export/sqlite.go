package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/jma-weather-archive/internal/weather"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stations (
  region_id       INTEGER NOT NULL,
  station_id      INTEGER NOT NULL,
  region_name     TEXT    NOT NULL,
  station_name    TEXT    NOT NULL,
  station_name_en TEXT    NOT NULL,
  latitude        REAL    NOT NULL,
  longitude       REAL    NOT NULL,
  PRIMARY KEY (region_id, station_id)
);

CREATE TABLE IF NOT EXISTS observations (
  region_id     INTEGER NOT NULL,
  station_id    INTEGER NOT NULL,
  date          TEXT    NOT NULL,
  hour          INTEGER NOT NULL,
  precipitation TEXT    NOT NULL,
  temperature   TEXT    NOT NULL,
  humidity      TEXT    NOT NULL,
  wind_speed    TEXT    NOT NULL,
  snowfall      TEXT    NOT NULL,
  snow_depth    TEXT    NOT NULL,
  weather       TEXT    NOT NULL,
  PRIMARY KEY (region_id, station_id, date, hour)
);
`

// SQLiteSink mirrors the exports into a SQLite database, upserting by primary key.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// one connection keeps an in-memory database alive across statements
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// DB exposes the underlying handle.
func (s *SQLiteSink) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteMaster upserts the master table in one transaction.
func (s *SQLiteSink) WriteMaster(ctx context.Context, stations []weather.Station) error {
	return s.inTx(ctx, `INSERT OR REPLACE INTO stations
		(region_id, station_id, region_name, station_name, station_name_en, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) error {
		for _, st := range stations {
			if _, err := stmt.ExecContext(ctx, st.RegionID, st.ID, st.RegionName, st.Name, st.NameEN, st.Latitude, st.Longitude); err != nil {
				return fmt.Errorf("insert station %d: %w", st.ID, err)
			}
		}
		return nil
	})
}

// WriteObservations upserts the raw observations in one transaction.
func (s *SQLiteSink) WriteObservations(ctx context.Context, observations []weather.Observation) error {
	return s.inTx(ctx, `INSERT OR REPLACE INTO observations
		(region_id, station_id, date, hour, precipitation, temperature, humidity, wind_speed, snowfall, snow_depth, weather)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) error {
		for _, o := range observations {
			if _, err := stmt.ExecContext(ctx, o.RegionID, o.StationID, o.Date, o.Hour,
				o.Precipitation, o.Temperature, o.Humidity, o.WindSpeed, o.Snowfall, o.SnowDepth, o.Weather); err != nil {
				return fmt.Errorf("insert observation %d/%s/%d: %w", o.StationID, o.Date, o.Hour, err)
			}
		}
		return nil
	})
}

func (s *SQLiteSink) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
