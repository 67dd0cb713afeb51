// Package temporal matches meals to symptoms in time and buckets events on a
// single fixed calendar.
package temporal

import (
	"time"
)

// Causal windows used by the analyzers.
const (
	FoodTriggerMin = 2 * time.Hour
	FoodTriggerMax = 8 * time.Hour
	MealTimingMin  = 1 * time.Hour
	MealTimingMax  = 12 * time.Hour
)

const dayLayout = "2006-01-02"

// IsWithinCausalWindow reports whether symptomTime - mealTime lies in
// [minOffset, maxOffset].
func IsWithinCausalWindow(mealTime, symptomTime time.Time, minOffset, maxOffset time.Duration) bool {
	delta := symptomTime.Sub(mealTime)
	if delta < 0 {
		return false
	}
	return delta >= minOffset && delta <= maxOffset
}

// Calendar buckets timestamps in one location. The zero value uses UTC.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a Calendar for loc. A nil location means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// LoadCalendar resolves an IANA zone name ("UTC", "Local", "Europe/Berlin").
func LoadCalendar(name string) (Calendar, error) {
	if name == "" {
		return NewCalendar(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, err
	}
	return NewCalendar(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.Location())
}

// DayKey returns the calendar day of t as YYYY-MM-DD.
func (c Calendar) DayKey(t time.Time) string {
	return c.In(t).Format(dayLayout)
}

func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DayKey(a) == c.DayKey(b)
}

func (c Calendar) Hour(t time.Time) int {
	return c.In(t).Hour()
}

func (c Calendar) Weekday(t time.Time) time.Weekday {
	return c.In(t).Weekday()
}

// BucketByHourOfDay counts timestamps per hour (0-23).
func (c Calendar) BucketByHourOfDay(timestamps []time.Time) map[int]int {
	buckets := make(map[int]int)
	for _, ts := range timestamps {
		buckets[c.Hour(ts)]++
	}
	return buckets
}

// BucketByWeekday counts timestamps per weekday.
func (c Calendar) BucketByWeekday(timestamps []time.Time) map[time.Weekday]int {
	buckets := make(map[time.Weekday]int)
	for _, ts := range timestamps {
		buckets[c.Weekday(ts)]++
	}
	return buckets
}

// PeakHour returns the hour with the most occurrences. Ties go to the earlier
// hour so results do not depend on map iteration order.
func PeakHour(buckets map[int]int) (hour, count int) {
	hour = -1
	for h := 0; h < 24; h++ {
		if n := buckets[h]; n > count {
			hour, count = h, n
		}
	}
	return hour, count
}

// PeakWeekday returns the weekday with the most occurrences, earliest first on ties.
func PeakWeekday(buckets map[time.Weekday]int) (day time.Weekday, count int) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if n := buckets[d]; n > count {
			day, count = d, n
		}
	}
	return day, count
}
