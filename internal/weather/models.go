package weather

import (
	"fmt"
	"strings"
)

// CompositeKeySep joins a region name and a station name into a composite key.
const CompositeKeySep = "::"

// CompositeKey returns the region_name::station_name key used to match curated
// targets and deduplicate stations.
func CompositeKey(regionName, stationName string) string {
	return regionName + CompositeKeySep + stationName
}

// Station is one observatory in the curated master table.
type Station struct {
	RegionID   int     `json:"regionId"`
	RegionName string  `json:"regionName"`
	ID         int     `json:"stationId"`
	Name       string  `json:"stationName"`
	NameEN     string  `json:"stationNameEn"` // output column key
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Key returns the station's composite key.
func (s Station) Key() string {
	return CompositeKey(s.RegionName, s.Name)
}

// Observation is one hourly reading as displayed by the source page.
// Measured values stay raw text; they are coerced only when reshaping or validating.
type Observation struct {
	RegionID      int    `json:"regionId"`
	StationID     int    `json:"stationId"`
	Date          string `json:"date"` // YYYYMMDD
	Hour          int    `json:"hour"`
	Precipitation string `json:"precipitation"`
	Temperature   string `json:"temperature"`
	Humidity      string `json:"humidity"`
	WindSpeed     string `json:"windSpeed"`
	Snowfall      string `json:"snowfall"`
	SnowDepth     string `json:"snowDepth"`
	Weather       string `json:"weather"`
}

// Variable names one measured column of an Observation.
type Variable string

const (
	VarPrecipitation Variable = "precipitation"
	VarTemperature   Variable = "temperature"
	VarHumidity      Variable = "humidity"
	VarWindSpeed     Variable = "wind_speed"
	VarSnowfall      Variable = "snowfall"
	VarSnowDepth     Variable = "snow_depth"
)

var abbreviations = map[Variable]string{
	VarTemperature:   "temp",
	VarHumidity:      "humid",
	VarPrecipitation: "precip",
	VarWindSpeed:     "wind",
	VarSnowfall:      "snowfall",
	VarSnowDepth:     "snow",
}

// Variables lists every numeric variable in export column order.
func Variables() []Variable {
	return []Variable{VarPrecipitation, VarTemperature, VarHumidity, VarWindSpeed, VarSnowfall, VarSnowDepth}
}

// ParseVariable resolves a variable by name or by its abbreviation.
func ParseVariable(s string) (Variable, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, abbr := range abbreviations {
		if s == string(v) || s == abbr {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variable %q", s)
}

// Abbrev returns the prefix used for wide-table column names.
func (v Variable) Abbrev() string {
	if a, ok := abbreviations[v]; ok {
		return a
	}
	return string(v)
}

// Value returns the raw text of variable v.
func (o Observation) Value(v Variable) string {
	switch v {
	case VarPrecipitation:
		return o.Precipitation
	case VarTemperature:
		return o.Temperature
	case VarHumidity:
		return o.Humidity
	case VarWindSpeed:
		return o.WindSpeed
	case VarSnowfall:
		return o.Snowfall
	case VarSnowDepth:
		return o.SnowDepth
	default:
		return ""
	}
}
