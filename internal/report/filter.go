package report

import (
	"slices"
	"time"
)

// LagDays pads the recency window to cover tracker and display lag.
const LagDays = 3

// Since returns the oldest update instant kept for a window of days.
func Since(days int, now time.Time) time.Time {
	return now.Add(-time.Duration(days+LagDays) * 24 * time.Hour)
}

// Recent keeps records updated at or after Since(days, now).
func Recent(records []Record, days int, now time.Time) []Record {
	from := Since(days, now)
	return keep(records, func(r Record) bool {
		return !r.Updated.Before(from)
	})
}

// OwnedBy keeps records owned by owner. An empty owner keeps everything.
func OwnedBy(records []Record, owner string) []Record {
	if owner == "" {
		return records
	}
	return keep(records, func(r Record) bool {
		return r.Owner == owner
	})
}

// WithoutKeyword drops records tagged with keyword.
func WithoutKeyword(records []Record, keyword string) []Record {
	return keep(records, func(r Record) bool {
		return !slices.Contains(r.Keywords, keyword)
	})
}

func WithStatus(records []Record, set StatusSet) []Record {
	return keep(records, func(r Record) bool {
		return set.Contains(r.Status)
	})
}

func WithSummary(records []Record) []Record {
	return keep(records, func(r Record) bool {
		return r.Summary != ""
	})
}

func keep(records []Record, fn func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if fn(r) {
			out = append(out, r)
		}
	}
	return out
}
