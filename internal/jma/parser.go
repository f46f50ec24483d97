package jma

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/weather"
)

// Layout of the hourly observation table: two header rows plus 24 hourly
// rows, each hourly row with a fixed set of cells.
const (
	hourlyTableRows = 26
	hourlyRowCells  = 17
)

// Cell positions within an hourly data row.
const (
	cellHour          = 0
	cellPrecipitation = 3
	cellTemperature   = 4
	cellHumidity      = 7
	cellWindSpeed     = 8
	cellSnowfall      = 12
	cellSnowDepth     = 13
	cellWeather       = 14
)

// ParseDay extracts the hourly observations of one station-day page.
// Tables and rows that do not match the hourly layout are skipped; a page
// without any hourly table yields no observations and no error.
func ParseDay(regionID, stationID int, date time.Time, content string) ([]weather.Observation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse hourly page: %w", err)
	}

	compact := date.Format(common.CompactDate)
	seen := make(map[int]bool)
	var out []weather.Observation

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() != hourlyTableRows {
			return
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() != hourlyRowCells {
				return
			}
			hour, err := strconv.Atoi(strings.TrimSpace(cells.Eq(cellHour).Text()))
			if err != nil || seen[hour] {
				return
			}
			seen[hour] = true

			out = append(out, weather.Observation{
				RegionID:      regionID,
				StationID:     stationID,
				Date:          compact,
				Hour:          hour,
				Precipitation: cells.Eq(cellPrecipitation).Text(),
				Temperature:   cells.Eq(cellTemperature).Text(),
				Humidity:      cells.Eq(cellHumidity).Text(),
				WindSpeed:     cells.Eq(cellWindSpeed).Text(),
				Snowfall:      cells.Eq(cellSnowfall).Text(),
				SnowDepth:     cells.Eq(cellSnowDepth).Text(),
				Weather:       cells.Eq(cellWeather).Find("img").First().AttrOr("alt", ""),
			})
		})
	})
	return out, nil
}
