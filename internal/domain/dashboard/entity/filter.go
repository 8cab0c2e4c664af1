package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// TimeRange is the symbolic time window a dashboard view covers
type TimeRange string

const (
	TimeRangeToday     TimeRange = "today"
	TimeRangeYesterday TimeRange = "yesterday"
	TimeRangeDayBefore TimeRange = "day_before"
	TimeRangeWeek      TimeRange = "week"       // last 7 days
	TimeRangeHalfMonth TimeRange = "half_month" // last 15 days
	TimeRangeMonth     TimeRange = "month"      // one calendar month back
	TimeRangeAll       TimeRange = "all"
)

// ErrInvalidTimeRange reports an unrecognized symbolic range
var ErrInvalidTimeRange = errors.New("invalid time range")

// IsValidTimeRange checks if a symbolic range is recognized
func IsValidTimeRange(r TimeRange) bool {
	switch r {
	case TimeRangeToday, TimeRangeYesterday, TimeRangeDayBefore,
		TimeRangeWeek, TimeRangeHalfMonth, TimeRangeMonth, TimeRangeAll:
		return true
	}
	return false
}

// FilterState is the active dashboard filter combination. Set-valued
// fields hold values drawn from the enum loader's option sets; TimeRange
// is always a single symbolic value unless an explicit Since instant is
// supplied, which overrides it.
type FilterState struct {
	TimeRange    TimeRange  `json:"time_range"`
	Relevance    []string   `json:"relevance"`
	Priority     []string   `json:"priority"`
	CreatorTypes []string   `json:"creator_types"`
	Platforms    []string   `json:"platforms"`
	Since        *time.Time `json:"since,omitempty"`
}

// CanonicalKey derives a deterministic cache key from the filter state
// and sort direction. Every set field is sorted before serialization, so
// set-equal filters yield identical keys regardless of insertion order.
func (f FilterState) CanonicalKey(oldestFirst bool) string {
	since := ""
	if f.Since != nil {
		since = f.Since.UTC().Format(time.RFC3339)
	}

	return fmt.Sprintf("tr=%s|rel=%s|pri=%s|ct=%s|pf=%s|since=%s|oldest=%t",
		f.TimeRange,
		joinSorted(f.Relevance),
		joinSorted(f.Priority),
		joinSorted(f.CreatorTypes),
		joinSorted(f.Platforms),
		since,
		oldestFirst,
	)
}

// StartAt resolves the filter's lower time bound; an explicit Since
// wins over the symbolic range.
func (f FilterState) StartAt(now time.Time) *time.Time {
	if f.Since != nil {
		t := *f.Since
		return &t
	}
	return ResolveStartAt(f.TimeRange, now)
}

// joinSorted joins a copy of the values in sorted order
func joinSorted(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// ResolveStartAt resolves a symbolic range into a concrete cutoff
// instant. "all" means no lower bound (nil). Day-based ranges anchor at
// local midnight; "month" subtracts one calendar month, not 30 days.
func ResolveStartAt(rng TimeRange, now time.Time) *time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var t time.Time
	switch rng {
	case TimeRangeAll, "":
		return nil
	case TimeRangeToday:
		t = midnight
	case TimeRangeYesterday:
		t = midnight.AddDate(0, 0, -1)
	case TimeRangeDayBefore:
		t = midnight.AddDate(0, 0, -2)
	case TimeRangeWeek:
		t = now.AddDate(0, 0, -7)
	case TimeRangeHalfMonth:
		t = now.AddDate(0, 0, -15)
	case TimeRangeMonth:
		t = now.AddDate(0, -1, 0)
	default:
		return nil
	}

	return &t
}

// FilterByTime keeps posts whose publish timestamp (falling back to the
// collection timestamp) is at or after startAt. A nil startAt returns
// the input unchanged.
func FilterByTime(posts []postentity.Post, startAt *time.Time) []postentity.Post {
	if startAt == nil {
		return posts
	}

	out := make([]postentity.Post, 0, len(posts))
	for _, p := range posts {
		if !p.PublishedOrCreated().Before(*startAt) {
			out = append(out, p)
		}
	}
	return out
}

// SortByPublished returns the posts sorted by the publish-or-created
// timestamp. The sort is stable: same-instant posts keep their input
// order across repeated sorts.
func SortByPublished(posts []postentity.Post, oldestFirst bool) []postentity.Post {
	out := make([]postentity.Post, len(posts))
	copy(out, posts)

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].PublishedOrCreated(), out[j].PublishedOrCreated()
		if oldestFirst {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})

	return out
}
