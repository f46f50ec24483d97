package jma

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sep1 = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

func TestParseDayFullTable(t *testing.T) {
	obs, err := ParseDay(44, 47662, sep1, hourlyPage(24, hourlyRowCells))
	require.NoError(t, err)
	require.Len(t, obs, 24)

	for i, o := range obs {
		assert.Equal(t, 44, o.RegionID)
		assert.Equal(t, 47662, o.StationID)
		assert.Equal(t, "20250901", o.Date)
		assert.Equal(t, i+1, o.Hour)
	}

	first := obs[0]
	assert.Equal(t, "--", first.Precipitation)
	assert.Equal(t, "21.5", first.Temperature)
	assert.Equal(t, "80", first.Humidity)
	assert.Equal(t, "3.2", first.WindSpeed)
	assert.Equal(t, "///", first.Snowfall)
	assert.Equal(t, "///", first.SnowDepth)
	assert.Equal(t, "", first.Weather)
	assert.Equal(t, "晴れ", obs[1].Weather)
}

func TestParseDaySkipsNonQualifyingTables(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few rows", hourlyPage(23, hourlyRowCells)},
		{"too many rows", hourlyPage(25, hourlyRowCells)},
		{"wrong cell count", hourlyPage(24, 16)},
		{"no tables", "<html><body><p>データがありません</p></body></html>"},
		{"empty page", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := ParseDay(44, 47662, sep1, tt.content)
			require.NoError(t, err)
			assert.Empty(t, obs)
		})
	}
}

func TestParseDayPicksQualifyingTableAmongOthers(t *testing.T) {
	page := `<table><tr><td>nav</td></tr></table>` + hourlyPage(24, hourlyRowCells)
	obs, err := ParseDay(44, 47662, sep1, page)
	require.NoError(t, err)
	assert.Len(t, obs, 24)
}
