package export

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/jma-weather-archive/internal/weather"
)

var (
	testStations = []weather.Station{
		{RegionID: 44, RegionName: "東京都", ID: 47662, Name: "東京", NameEN: "tokyo", Latitude: 35.691666666666667, Longitude: 139.75},
		{RegionID: 62, RegionName: "大阪府", ID: 47772, Name: "大阪", NameEN: "osaka", Latitude: 34.68166666666667, Longitude: 135.51833333333335},
	}
	testObservations = []weather.Observation{
		{RegionID: 44, StationID: 47662, Date: "20250901", Hour: 1, Precipitation: "--", Temperature: "25.1", Humidity: "80", WindSpeed: "3.2", Snowfall: "///", SnowDepth: "///", Weather: "晴れ"},
		{RegionID: 44, StationID: 47662, Date: "20250901", Hour: 2, Precipitation: "0.5", Temperature: "24.8 )", Humidity: "81", WindSpeed: "2.9", Snowfall: "", SnowDepth: "", Weather: ""},
	}
)

func TestMasterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMaster(&buf, testStations))

	assert.Contains(t, buf.String(), "region_id,region_name,station_id,station_name,station_name_en,latitude,longitude\n")
	assert.Contains(t, buf.String(), "44,東京都,47662,東京,tokyo,")

	got, err := ReadMaster(&buf)
	require.NoError(t, err)
	assert.Equal(t, testStations, got)
}

func TestObservationsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteObservations(&buf, testObservations))

	got, err := ReadObservations(&buf)
	require.NoError(t, err)
	assert.Equal(t, testObservations, got)
}

func TestReadObservationsRejectsForeignHeader(t *testing.T) {
	_, err := ReadObservations(bytes.NewBufferString("a,b,c,d,e,f,g,h,i,j,k\n"))
	assert.Error(t, err)
}

func TestWriteWide(t *testing.T) {
	ts := time.Date(2025, time.September, 1, 1, 0, 0, 0, time.UTC)
	table := weather.WideTable{
		Columns: []string{"temp_osaka", "temp_tokyo"},
		Rows:    []weather.WideRow{{Timestamp: ts, Values: []float64{27, math.NaN()}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWide(&buf, table))
	assert.Equal(t, "timestamp,temp_osaka,temp_tokyo\n2025-09-01 01:00:00,27,\n", buf.String())
}

func TestCSVSinkAndDataset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink, err := NewCSVSink(dir, nil)
	require.NoError(t, err)

	_, _, err = Dataset{Dir: dir}.Load()
	require.ErrorIs(t, err, ErrNoDataset)

	require.NoError(t, sink.WriteMaster(context.Background(), testStations))
	require.NoError(t, sink.WriteObservations(context.Background(), testObservations))

	master, obs, err := Dataset{Dir: dir}.Load()
	require.NoError(t, err)
	assert.Equal(t, testStations, master)
	assert.Equal(t, testObservations, obs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSQLiteSinkUpserts(t *testing.T) {
	sink, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() {
		if err := sink.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	}()

	ctx := context.Background()
	require.NoError(t, sink.WriteMaster(ctx, testStations))
	require.NoError(t, sink.WriteObservations(ctx, testObservations))
	require.NoError(t, sink.WriteObservations(ctx, testObservations))

	var stations, observations int
	require.NoError(t, sink.DB().QueryRow(`SELECT COUNT(*) FROM stations`).Scan(&stations))
	require.NoError(t, sink.DB().QueryRow(`SELECT COUNT(*) FROM observations`).Scan(&observations))
	assert.Equal(t, 2, stations)
	assert.Equal(t, 2, observations)

	var temp string
	require.NoError(t, sink.DB().QueryRow(`SELECT temperature FROM observations WHERE hour = 2`).Scan(&temp))
	assert.Equal(t, "24.8 )", temp)
}
