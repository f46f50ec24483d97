package weather

import (
	"time"

	"github.com/i474232898/jma-weather-archive/internal/common"
)

// MonthBucket holds the dates of one calendar month, in chronological order.
type MonthBucket struct {
	Month string // YYYY-MM, also the archive batch id
	Dates []time.Time
}

// Plan enumerates every date in [start, end] and groups them by calendar month.
// Buckets and the dates within them are chronological. end before start yields nil.
func Plan(start, end time.Time) []MonthBucket {
	start = truncateDay(start)
	end = truncateDay(end)

	var buckets []MonthBucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		month := d.Format(common.YearMonth)
		if n := len(buckets); n == 0 || buckets[n-1].Month != month {
			buckets = append(buckets, MonthBucket{Month: month})
		}
		last := &buckets[len(buckets)-1]
		last.Dates = append(last.Dates, d)
	}
	return buckets
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
