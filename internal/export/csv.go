// Package export writes and reads the datasets produced by a scrape.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/i474232898/jma-weather-archive/internal/weather"
)

var (
	masterHeader = []string{
		"region_id", "region_name", "station_id", "station_name", "station_name_en", "latitude", "longitude",
	}
	observationHeader = []string{
		"region_id", "station_id", "date", "hour",
		"precipitation", "temperature", "humidity", "wind_speed", "snowfall", "snow_depth", "weather",
	}
)

// WideTimestampLayout formats the timestamp column of a wide table.
const WideTimestampLayout = "2006-01-02 15:04:05"

// WriteMaster writes the master table.
func WriteMaster(w io.Writer, stations []weather.Station) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(masterHeader); err != nil {
		return err
	}
	for _, st := range stations {
		rec := []string{
			strconv.Itoa(st.RegionID),
			st.RegionName,
			strconv.Itoa(st.ID),
			st.Name,
			st.NameEN,
			formatFloat(st.Latitude),
			formatFloat(st.Longitude),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteObservations writes the raw long-format observations.
func WriteObservations(w io.Writer, observations []weather.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(observationHeader); err != nil {
		return err
	}
	for _, o := range observations {
		rec := []string{
			strconv.Itoa(o.RegionID),
			strconv.Itoa(o.StationID),
			o.Date,
			strconv.Itoa(o.Hour),
			o.Precipitation,
			o.Temperature,
			o.Humidity,
			o.WindSpeed,
			o.Snowfall,
			o.SnowDepth,
			o.Weather,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWide writes a wide table; missing values become empty cells.
func WriteWide(w io.Writer, table weather.WideTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"timestamp"}, table.Columns...)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		rec := make([]string, 0, len(row.Values)+1)
		rec = append(rec, row.Timestamp.Format(WideTimestampLayout))
		for _, v := range row.Values {
			if math.IsNaN(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, formatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMaster reads a master table written by WriteMaster.
func ReadMaster(r io.Reader) ([]weather.Station, error) {
	records, err := readRecords(r, masterHeader)
	if err != nil {
		return nil, fmt.Errorf("read master: %w", err)
	}
	out := make([]weather.Station, 0, len(records))
	for i, rec := range records {
		st := weather.Station{RegionName: rec[1], Name: rec[3], NameEN: rec[4]}
		var err error
		if st.RegionID, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("read master line %d: region_id: %w", i+2, err)
		}
		if st.ID, err = strconv.Atoi(rec[2]); err != nil {
			return nil, fmt.Errorf("read master line %d: station_id: %w", i+2, err)
		}
		if st.Latitude, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, fmt.Errorf("read master line %d: latitude: %w", i+2, err)
		}
		if st.Longitude, err = strconv.ParseFloat(rec[6], 64); err != nil {
			return nil, fmt.Errorf("read master line %d: longitude: %w", i+2, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// ReadObservations reads observations written by WriteObservations.
func ReadObservations(r io.Reader) ([]weather.Observation, error) {
	records, err := readRecords(r, observationHeader)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	out := make([]weather.Observation, 0, len(records))
	for i, rec := range records {
		o := weather.Observation{
			Date:          rec[2],
			Precipitation: rec[4],
			Temperature:   rec[5],
			Humidity:      rec[6],
			WindSpeed:     rec[7],
			Snowfall:      rec[8],
			SnowDepth:     rec[9],
			Weather:       rec[10],
		}
		var err error
		if o.RegionID, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("read observations line %d: region_id: %w", i+2, err)
		}
		if o.StationID, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("read observations line %d: station_id: %w", i+2, err)
		}
		if o.Hour, err = strconv.Atoi(rec[3]); err != nil {
			return nil, fmt.Errorf("read observations line %d: hour: %w", i+2, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func readRecords(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	got, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("unexpected header %v", got)
		}
	}
	return cr.ReadAll()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
