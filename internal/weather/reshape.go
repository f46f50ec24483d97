package weather

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/jma-weather-archive/internal/common"
)

// ParseValue coerces a raw display value to a number. Anything that is not a
// finite number (empty, "--", "///", values carrying quality marks) is NaN.
func ParseValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// IsMissing reports whether a coerced value is the missing sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Timestamp derives the observation time as calendar date plus hour offset.
// The hour is taken as the source labels it; an hour of 24 rolls to the next day.
func (o Observation) Timestamp() (time.Time, error) {
	d, err := common.ParseCompact(o.Date)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(o.Hour) * time.Hour), nil
}

// WideRow is one timestamp of a WideTable. Values align with WideTable.Columns.
type WideRow struct {
	Timestamp time.Time
	Values    []float64
}

// WideTable has one row per timestamp and one column per (variable, station).
type WideTable struct {
	Columns []string
	Rows    []WideRow
}

type cellKey struct {
	ts   time.Time
	name string
}

// Reshape pivots long-format observations into a WideTable. Stations are
// resolved to their transliterated names through master by station id;
// observations of unknown stations contribute timestamps but no columns.
func Reshape(observations []Observation, master []Station, variables []Variable) WideTable {
	names := make(map[int]string, len(master))
	for _, st := range master {
		if _, ok := names[st.ID]; !ok {
			names[st.ID] = st.NameEN
		}
	}

	type placed struct {
		obs  Observation
		ts   time.Time
		name string
	}
	var rows []placed
	seenTS := map[time.Time]bool{}
	seenName := map[string]bool{}
	var timestamps []time.Time
	var stationNames []string

	for _, o := range observations {
		ts, err := o.Timestamp()
		if err != nil {
			continue
		}
		if !seenTS[ts] {
			seenTS[ts] = true
			timestamps = append(timestamps, ts)
		}
		name, ok := names[o.StationID]
		if !ok {
			continue
		}
		if !seenName[name] {
			seenName[name] = true
			stationNames = append(stationNames, name)
		}
		rows = append(rows, placed{obs: o, ts: ts, name: name})
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	sort.Strings(stationNames)

	table := WideTable{}
	for _, v := range variables {
		for _, name := range stationNames {
			table.Columns = append(table.Columns, v.Abbrev()+"_"+name)
		}
	}

	index := make(map[time.Time]int, len(timestamps))
	table.Rows = make([]WideRow, len(timestamps))
	for i, ts := range timestamps {
		index[ts] = i
		vals := make([]float64, len(table.Columns))
		for j := range vals {
			vals[j] = math.NaN()
		}
		table.Rows[i] = WideRow{Timestamp: ts, Values: vals}
	}

	column := make(map[string]int, len(stationNames))
	for i, name := range stationNames {
		column[name] = i
	}
	filled := map[cellKey]bool{}
	for _, r := range rows {
		ck := cellKey{ts: r.ts, name: r.name}
		if filled[ck] {
			continue
		}
		filled[ck] = true
		row := table.Rows[index[r.ts]]
		for vi, v := range variables {
			row.Values[vi*len(stationNames)+column[r.name]] = ParseValue(r.obs.Value(v))
		}
	}
	return table
}
