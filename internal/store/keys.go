package store

import (
	"fmt"
	"strings"
	"time"
)

// HierarchyBatch is the batch id of the station list and per-region pages.
const HierarchyBatch = "prefectures"

const (
	hierarchyPrefix = "prefecture"
	keyExt          = ".txt"
)

// StationListKey is the cache key of the top-level region list page.
func StationListKey() string {
	return HierarchyBatch + keyExt
}

// RegionKey is the cache key of one region's station list page.
func RegionKey(regionID int) string {
	return fmt.Sprintf("%s_%d%s", hierarchyPrefix, regionID, keyExt)
}

// DayKey is the cache key of one station-day observation page.
func DayKey(regionID, stationID int, date time.Time) string {
	return fmt.Sprintf("%d_%d_%s%s", regionID, stationID, date.Format("2006-01-02"), keyExt)
}

// InHierarchy reports whether key belongs to the station-hierarchy batch.
func InHierarchy(key string) bool {
	return strings.HasPrefix(key, hierarchyPrefix)
}

// InMonth reports whether key is a station-day page of month (YYYY-MM).
func InMonth(key, month string) bool {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return false
	}
	return strings.HasPrefix(parts[2], month)
}

// InBatch reports whether key belongs to batch, either HierarchyBatch or a YYYY-MM month.
func InBatch(key, batch string) bool {
	if batch == HierarchyBatch {
		return InHierarchy(key)
	}
	return InMonth(key, batch)
}
