package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanSingleMonth(t *testing.T) {
	buckets := Plan(day(2025, time.September, 1), day(2025, time.September, 2))

	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-09", buckets[0].Month)
	assert.Equal(t, []time.Time{day(2025, time.September, 1), day(2025, time.September, 2)}, buckets[0].Dates)
}

func TestPlanFlattensToInclusiveRange(t *testing.T) {
	ranges := []struct {
		name       string
		start, end time.Time
	}{
		{"same day", day(2025, time.January, 31), day(2025, time.January, 31)},
		{"month boundary", day(2025, time.January, 30), day(2025, time.February, 2)},
		{"leap february", day(2024, time.February, 27), day(2024, time.March, 1)},
		{"year boundary", day(2024, time.December, 15), day(2025, time.February, 10)},
	}

	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			var flat []time.Time
			var months []string
			for _, b := range Plan(tt.start, tt.end) {
				months = append(months, b.Month)
				flat = append(flat, b.Dates...)
			}

			var want []time.Time
			for d := tt.start; !d.After(tt.end); d = d.AddDate(0, 0, 1) {
				want = append(want, d)
			}
			assert.Equal(t, want, flat)

			seen := map[string]bool{}
			for _, m := range months {
				assert.False(t, seen[m], "month %s emitted twice", m)
				seen[m] = true
			}
		})
	}
}

func TestPlanLeapDay(t *testing.T) {
	buckets := Plan(day(2024, time.February, 28), day(2024, time.February, 29))
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Dates, 2)
}

func TestPlanEmptyWhenEndBeforeStart(t *testing.T) {
	assert.Empty(t, Plan(day(2025, time.September, 2), day(2025, time.September, 1)))
}
