package weather

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/i474232898/jma-weather-archive/internal/common"
)

// ErrNoObservations is returned when nothing falls inside the validated range.
var ErrNoObservations = errors.New("no observations in range")

// ValidateOptions controls Validate.
type ValidateOptions struct {
	// Lower and Upper bound the validated dates (YYYY-MM-DD, inclusive). Empty means unbounded.
	Lower string
	Upper string
	// MaxExamples caps the examples kept per station (0 keeps all).
	MaxExamples int
	// SourceURL reconstructs the page an observation came from. Optional.
	SourceURL func(Observation) string
}

// MissingExample points at one missing reading.
type MissingExample struct {
	Date string `json:"date"`
	Hour int    `json:"hour"`
	URL  string `json:"url,omitempty"`
}

// StationMissing summarizes the missing readings of one station.
type StationMissing struct {
	Station  string           `json:"station"`
	Count    int              `json:"count"`
	Examples []MissingExample `json:"examples"`
}

// Report is the outcome of validating one variable.
type Report struct {
	Variable           Variable         `json:"variable"`
	Start              string           `json:"start"`
	End                string           `json:"end"`
	Days               int              `json:"days"`
	TotalStations      int              `json:"totalStations"`
	CompleteStations   int              `json:"completeStations"`
	IncompleteStations int              `json:"incompleteStations"`
	Missing            []StationMissing `json:"missing"`

	// Complete holds the master rows of stations without any missing value.
	Complete []Station `json:"-"`
	// Observations are the rows inside the validated range.
	Observations []Observation `json:"-"`
}

// FilterRange keeps observations whose date lies in [lower, upper] (YYYY-MM-DD, inclusive).
func FilterRange(observations []Observation, lower, upper string) []Observation {
	lb, ub := common.Compact(lower), common.Compact(upper)
	var out []Observation
	for _, o := range observations {
		if lb != "" && o.Date < lb {
			continue
		}
		if ub != "" && o.Date > ub {
			continue
		}
		out = append(out, o)
	}
	return out
}

type stationRef struct {
	region, id int
}

// Validate counts, per station, the readings of v that do not coerce to a number.
// Observations are joined to master on (region id, station id); rows of
// stations missing from master are counted in the date range but not per station.
func Validate(observations []Observation, master []Station, v Variable, opts ValidateOptions) (Report, error) {
	obs := FilterRange(observations, opts.Lower, opts.Upper)
	if len(obs) == 0 {
		return Report{}, ErrNoObservations
	}

	byRef := make(map[stationRef]Station, len(master))
	for _, st := range master {
		ref := stationRef{st.RegionID, st.ID}
		if _, ok := byRef[ref]; !ok {
			byRef[ref] = st
		}
	}

	rep := Report{Variable: v, Observations: obs, Start: obs[0].Date, End: obs[0].Date}
	days := map[string]bool{}
	seen := map[string]Station{}
	var order []string
	missing := map[string]*StationMissing{}

	for _, o := range obs {
		days[o.Date] = true
		if o.Date < rep.Start {
			rep.Start = o.Date
		}
		if o.Date > rep.End {
			rep.End = o.Date
		}

		st, ok := byRef[stationRef{o.RegionID, o.StationID}]
		if !ok {
			continue
		}
		if _, ok := seen[st.NameEN]; !ok {
			seen[st.NameEN] = st
			order = append(order, st.NameEN)
		}
		if !IsMissing(ParseValue(o.Value(v))) {
			continue
		}
		m, ok := missing[st.NameEN]
		if !ok {
			m = &StationMissing{Station: st.NameEN}
			missing[st.NameEN] = m
		}
		m.Count++
		if opts.MaxExamples <= 0 || len(m.Examples) < opts.MaxExamples {
			ex := MissingExample{Date: common.Expand(o.Date), Hour: o.Hour}
			if opts.SourceURL != nil {
				ex.URL = opts.SourceURL(o)
			}
			m.Examples = append(m.Examples, ex)
		}
	}

	rep.Start = common.Expand(rep.Start)
	rep.End = common.Expand(rep.End)
	rep.Days = len(days)
	rep.TotalStations = len(seen)
	rep.IncompleteStations = len(missing)
	rep.CompleteStations = rep.TotalStations - rep.IncompleteStations

	for _, name := range order {
		if m, ok := missing[name]; ok {
			rep.Missing = append(rep.Missing, *m)
			continue
		}
		rep.Complete = append(rep.Complete, seen[name])
	}
	sort.SliceStable(rep.Missing, func(i, j int) bool {
		if rep.Missing[i].Count != rep.Missing[j].Count {
			return rep.Missing[i].Count > rep.Missing[j].Count
		}
		return rep.Missing[i].Station < rep.Missing[j].Station
	})
	return rep, nil
}

// CompleteTable reshapes the report's observations restricted to complete stations.
func (r Report) CompleteTable() WideTable {
	keep := make(map[stationRef]bool, len(r.Complete))
	for _, st := range r.Complete {
		keep[stationRef{st.RegionID, st.ID}] = true
	}
	var obs []Observation
	for _, o := range r.Observations {
		if keep[stationRef{o.RegionID, o.StationID}] {
			obs = append(obs, o)
		}
	}
	return Reshape(obs, r.Complete, []Variable{r.Variable})
}

// Render writes a human-readable summary, listing at most maxStations
// stations and maxHours examples per station.
func (r Report) Render(w io.Writer, maxStations, maxHours int) error {
	p := &printer{w: w}
	p.printf("Date range: %s to %s (%d days)\n", r.Start, r.End, r.Days)
	p.printf("# %s\n", r.Variable)
	p.printf("- Total       : %d blocks\n", r.TotalStations)
	p.printf("- No missing  : %d blocks\n", r.CompleteStations)
	p.printf("- Has missing : %d blocks\n", r.IncompleteStations)
	if len(r.Missing) > 0 {
		p.printf("  - Missing blocks/datetimes\n")
	}
	for i, m := range r.Missing {
		if i >= maxStations {
			p.printf("    - ... and %d more blocks\n", len(r.Missing)-maxStations)
			break
		}
		p.printf("    - %s : %d missing\n", m.Station, m.Count)
		shown := 0
		for _, ex := range m.Examples {
			if shown >= maxHours {
				break
			}
			p.printf("      - %s %d:00\n", ex.Date, ex.Hour)
			if ex.URL != "" {
				p.printf("        %s\n", ex.URL)
			}
			shown++
		}
		if m.Count > shown {
			p.printf("      - ... and %d more\n", m.Count-shown)
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
