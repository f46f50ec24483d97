package jma

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/i474232898/jma-weather-archive/internal/weather"
)

// ExcludedRegion is listed on the region page but has no prefectural observatory.
const ExcludedRegion = "南極"

// Region is one entry of the top-level region list.
type Region struct {
	ID   int
	Name string
}

// ParseRegions extracts the region image-map entries of the region list page,
// skipping ExcludedRegion.
func ParseRegions(content string) ([]Region, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse region list: %w", err)
	}

	var regions []Region
	var parseErr error
	doc.Find("area").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		_, rest, found := strings.Cut(href, "prec_no=")
		if !found {
			return true
		}
		raw, _, _ := strings.Cut(rest, "&")
		id, err := strconv.Atoi(raw)
		if err != nil {
			parseErr = fmt.Errorf("region link %q: %w", href, err)
			return false
		}
		name := normalize(s.AttrOr("alt", ""))
		if name == ExcludedRegion {
			return true
		}
		regions = append(regions, Region{ID: id, Name: name})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return regions, nil
}

// Station kinds carried by the first field of a station tuple.
const (
	KindObservatory = "s"
	KindAutomated   = "a"
)

// StationEntry is one station tuple of a region page.
type StationEntry struct {
	Kind      string
	ID        int
	Name      string
	Latitude  float64
	Longitude float64
}

// Field positions inside the viewPoint(...) tuple of a station map entry.
// Only these positions are read; trailing fields are ignored.
const (
	fieldKind = iota
	fieldID
	fieldName
	fieldKana
	fieldLatDeg
	fieldLatMin
	fieldLonDeg
	fieldLonMin
	minStationFields
)

// tupleFields returns the unquoted fields of a javascript:viewPoint(...) attribute.
func tupleFields(attr string) ([]string, error) {
	_, rest, ok := strings.Cut(attr, "(")
	if !ok {
		return nil, fmt.Errorf("station tuple %q: missing '('", attr)
	}
	body, _, ok := strings.Cut(rest, ")")
	if !ok {
		return nil, fmt.Errorf("station tuple %q: missing ')'", attr)
	}
	fields := strings.Split(body, ",")
	for i, f := range fields {
		fields[i] = unquote(f)
	}
	return fields, nil
}

// parseStationTuple decodes an onmouseover attribute of the form
// javascript:viewPoint('s','47662','東京','とうきょう','35','41.5','139','45.0',...).
// Coordinates are degrees plus minutes/60.
func parseStationTuple(attr string) (StationEntry, error) {
	fields, err := tupleFields(attr)
	if err != nil {
		return StationEntry{}, err
	}
	return decodeStation(attr, fields)
}

func decodeStation(attr string, fields []string) (StationEntry, error) {
	if len(fields) < minStationFields {
		return StationEntry{}, fmt.Errorf("station tuple %q: %d fields, want at least %d", attr, len(fields), minStationFields)
	}
	id, err := strconv.Atoi(fields[fieldID])
	if err != nil {
		return StationEntry{}, fmt.Errorf("station tuple %q: station id: %w", attr, err)
	}
	lat, err := degrees(fields[fieldLatDeg], fields[fieldLatMin])
	if err != nil {
		return StationEntry{}, fmt.Errorf("station tuple %q: latitude: %w", attr, err)
	}
	lon, err := degrees(fields[fieldLonDeg], fields[fieldLonMin])
	if err != nil {
		return StationEntry{}, fmt.Errorf("station tuple %q: longitude: %w", attr, err)
	}
	return StationEntry{
		Kind:      fields[fieldKind],
		ID:        id,
		Name:      normalize(fields[fieldName]),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func degrees(deg, minutes string) (float64, error) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseFloat(minutes, 64)
	if err != nil {
		return 0, err
	}
	return d + m/60.0, nil
}

// ParseStations extracts the observatory tuples of a region page, in page order.
// Other kinds are skipped on their kind field alone, so their remaining fields
// may be malformed; a malformed observatory tuple is an error.
func ParseStations(content string) ([]StationEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse station list: %w", err)
	}

	var entries []StationEntry
	var parseErr error
	doc.Find("area").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attr, ok := s.Attr("onmouseover")
		if !ok || !strings.Contains(attr, "(") {
			return true
		}
		fields, err := tupleFields(attr)
		if err != nil {
			parseErr = err
			return false
		}
		if fields[fieldKind] != KindObservatory {
			return true
		}
		entry, err := decodeStation(attr, fields)
		if err != nil {
			parseErr = err
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}

// PageSource provides the station hierarchy pages.
type PageSource interface {
	StationListPage(ctx context.Context) (string, error)
	RegionPage(ctx context.Context, regionID int) (string, error)
}

// Resolver walks the region hierarchy and keeps the curated observatories.
type Resolver struct {
	pages   PageSource
	catalog *Catalog
	logger  *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(pages PageSource, catalog *Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{pages: pages, catalog: catalog, logger: logger}
}

// BuildMasterTable returns one Station per curated composite key, in the order
// first encountered. Only observatories are considered and later duplicates are dropped.
// A curated station without a transliteration is an error.
func (r *Resolver) BuildMasterTable(ctx context.Context) ([]weather.Station, error) {
	content, err := r.pages.StationListPage(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := ParseRegions(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []weather.Station
	for _, region := range regions {
		content, err := r.pages.RegionPage(ctx, region.ID)
		if err != nil {
			return nil, err
		}
		entries, err := ParseStations(content)
		if err != nil {
			return nil, fmt.Errorf("region %d (%s): %w", region.ID, region.Name, err)
		}
		for _, e := range entries {
			key := weather.CompositeKey(region.Name, e.Name)
			if !r.catalog.Targeted(key) || seen[key] {
				continue
			}
			seen[key] = true

			nameEN, err := r.catalog.Transliterate(e.Name)
			if err != nil {
				return nil, err
			}
			r.logger.Info("station", "region_id", region.ID, "region", region.Name, "station_id", e.ID, "station", e.Name)
			out = append(out, weather.Station{
				RegionID:   region.ID,
				RegionName: region.Name,
				ID:         e.ID,
				Name:       e.Name,
				NameEN:     nameEN,
				Latitude:   e.Latitude,
				Longitude:  e.Longitude,
			})
		}
	}
	return out, nil
}
