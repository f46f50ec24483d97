package jma

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/weather"
)

// DefaultBaseURL is the root of the historical weather data search.
const DefaultBaseURL = "https://www.data.jma.go.jp/stats/etrn"

// StationListURL is the page listing every region.
func StationListURL(base string) string {
	return strings.TrimRight(base, "/") + "/select/prefecture00.php"
}

// RegionURL is the page listing the stations of one region.
func RegionURL(base string, regionID int) string {
	return fmt.Sprintf("%s/select/prefecture.php?prec_no=%d", strings.TrimRight(base, "/"), regionID)
}

// DayURL is the hourly observation page of one station-day.
func DayURL(base string, regionID, stationID int, date time.Time) string {
	return fmt.Sprintf("%s/view/hourly_s1.php?prec_no=%d&block_no=%d&year=%d&month=%d&day=%d&view=",
		strings.TrimRight(base, "/"), regionID, stationID, date.Year(), int(date.Month()), date.Day())
}

// SourceURL reconstructs the page an observation was parsed from.
func SourceURL(base string) func(weather.Observation) string {
	return func(o weather.Observation) string {
		d, err := common.ParseCompact(o.Date)
		if err != nil {
			return ""
		}
		return DayURL(base, o.RegionID, o.StationID, d)
	}
}
