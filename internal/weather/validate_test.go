package weather

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFixture() ([]Observation, []Station) {
	master := []Station{
		{RegionID: 44, RegionName: "東京都", ID: 47662, Name: "東京", NameEN: "tokyo"},
		{RegionID: 62, RegionName: "大阪府", ID: 47772, Name: "大阪", NameEN: "osaka"},
		{RegionID: 82, RegionName: "福岡県", ID: 47807, Name: "福岡", NameEN: "fukuoka"},
	}
	var obs []Observation
	for _, date := range []string{"20250831", "20250901", "20250902"} {
		for h := 1; h <= 3; h++ {
			obs = append(obs,
				Observation{RegionID: 44, StationID: 47662, Date: date, Hour: h, Temperature: "25.0"},
				Observation{RegionID: 62, StationID: 47772, Date: date, Hour: h, Temperature: "26.0"},
				Observation{RegionID: 82, StationID: 47807, Date: date, Hour: h, Temperature: "27.0"},
			)
		}
	}
	// osaka loses two readings on 09-01, fukuoka one on 09-02
	obs[9+1].Temperature = "--"
	obs[9+4].Temperature = "///"
	obs[18+2].Temperature = ""
	return obs, master
}

func TestFilterRange(t *testing.T) {
	obs, _ := validationFixture()
	got := FilterRange(obs, "2025-09-01", "2025-09-01")
	require.Len(t, got, 9)
	for _, o := range got {
		assert.Equal(t, "20250901", o.Date)
	}
	assert.Len(t, FilterRange(obs, "", ""), len(obs))
}

func TestValidateCountsMissingPerStation(t *testing.T) {
	obs, master := validationFixture()

	rep, err := Validate(obs, master, VarTemperature, ValidateOptions{
		Lower:       "2025-09-01",
		Upper:       "2025-09-02",
		MaxExamples: 3,
		SourceURL:   func(o Observation) string { return fmt.Sprintf("src/%d/%s", o.StationID, o.Date) },
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-09-01", rep.Start)
	assert.Equal(t, "2025-09-02", rep.End)
	assert.Equal(t, 2, rep.Days)
	assert.Equal(t, 3, rep.TotalStations)
	assert.Equal(t, 1, rep.CompleteStations)
	assert.Equal(t, 2, rep.IncompleteStations)

	require.Len(t, rep.Missing, 2)
	assert.Equal(t, "osaka", rep.Missing[0].Station)
	assert.Equal(t, 2, rep.Missing[0].Count)
	assert.Equal(t, MissingExample{Date: "2025-09-01", Hour: 1, URL: "src/47772/20250901"}, rep.Missing[0].Examples[0])
	assert.Equal(t, "fukuoka", rep.Missing[1].Station)

	require.Len(t, rep.Complete, 1)
	assert.Equal(t, "tokyo", rep.Complete[0].NameEN)
}

func TestValidateEmptyRange(t *testing.T) {
	obs, master := validationFixture()
	_, err := Validate(obs, master, VarTemperature, ValidateOptions{Lower: "2030-01-01", Upper: "2030-01-02"})
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestReportCompleteTable(t *testing.T) {
	obs, master := validationFixture()
	rep, err := Validate(obs, master, VarTemperature, ValidateOptions{Lower: "2025-09-01", Upper: "2025-09-01"})
	require.NoError(t, err)

	table := rep.CompleteTable()
	assert.Equal(t, []string{"temp_fukuoka", "temp_tokyo"}, table.Columns)
	assert.Len(t, table.Rows, 3)
}

func TestReportRender(t *testing.T) {
	obs, master := validationFixture()
	rep, err := Validate(obs, master, VarTemperature, ValidateOptions{Lower: "2025-09-01", Upper: "2025-09-02"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.Render(&buf, 1, 1))
	out := buf.String()
	assert.Contains(t, out, "Date range: 2025-09-01 to 2025-09-02 (2 days)")
	assert.Contains(t, out, "- Has missing : 2 blocks")
	assert.Contains(t, out, "osaka : 2 missing")
	assert.Contains(t, out, "... and 1 more blocks")
	assert.Contains(t, out, "... and 1 more\n")
}
