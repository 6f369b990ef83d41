package services

import (
	"strings"
	"sync"
	"time"

	"github.com/PrayerLoop/models"
)

// WeekRange bounds a week in UTC: [StartUTC, EndUTC).
type WeekRange struct {
	StartUTC time.Time `json:"startUtc"`
	EndUTC   time.Time `json:"endUtc"`
}

// WeekClock maps instants to civil weeks in one time zone.
//
// Week boundaries are civil midnights, so a week that contains a DST
// transition is 167 or 169 hours long. Ranges inside the precomputed
// horizon are served from a table built at construction; anything outside
// is computed once and memoized for the life of the process.
type WeekClock struct {
	loc *time.Location
	now func() time.Time

	mu     sync.RWMutex
	ranges map[models.WeekKey]WeekRange
}

// NewWeekClock precomputes horizonWeeks weeks on each side of the current
// week. A nil now uses time.Now.
func NewWeekClock(loc *time.Location, now func() time.Time, horizonWeeks int) *WeekClock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if horizonWeeks < 0 {
		horizonWeeks = 0
	}

	wc := &WeekClock{
		loc:    loc,
		now:    now,
		ranges: make(map[models.WeekKey]WeekRange, 2*horizonWeeks+1),
	}

	current, _ := wc.CurrentWeekKey().Date()
	for i := -horizonWeeks; i <= horizonWeeks; i++ {
		d := current.AddDate(0, 0, 7*i)
		key := models.WeekKey(d.Format(models.WeekKeyLayout))
		wc.ranges[key] = wc.computeRange(d)
	}
	return wc
}

func (wc *WeekClock) Location() *time.Location {
	return wc.loc
}

func (wc *WeekClock) Now() time.Time {
	return wc.now()
}

// WeekKeyFor returns the Sunday on or before t's civil date.
func (wc *WeekClock) WeekKeyFor(t time.Time) models.WeekKey {
	local := t.In(wc.loc)
	return models.WeekKeyFromDate(local.Year(), local.Month(), local.Day())
}

func (wc *WeekClock) CurrentWeekKey() models.WeekKey {
	return wc.WeekKeyFor(wc.now())
}

func (wc *WeekClock) IsCurrentWeek(key models.WeekKey) bool {
	return key == wc.CurrentWeekKey()
}

// WeekUTCRange returns the UTC instants bounding the 7 civil days that
// start on key. key need not be a Sunday.
func (wc *WeekClock) WeekUTCRange(key models.WeekKey) (WeekRange, error) {
	wc.mu.RLock()
	r, ok := wc.ranges[key]
	wc.mu.RUnlock()
	if ok {
		return r, nil
	}

	if _, err := models.ParseWeekKey(string(key)); err != nil {
		return WeekRange{}, err
	}
	d, _ := key.Date()
	r = wc.computeRange(d)

	wc.mu.Lock()
	wc.ranges[key] = r
	wc.mu.Unlock()
	return r, nil
}

func (wc *WeekClock) computeRange(d time.Time) WeekRange {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, wc.loc)
	end := time.Date(d.Year(), d.Month(), d.Day()+7, 0, 0, 0, 0, wc.loc)
	return WeekRange{StartUTC: start.UTC(), EndUTC: end.UTC()}
}

var looseDateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeToWeekKey parses a user supplied date and snaps it to its
// week's Sunday. Unparseable input yields the current week.
func (wc *WeekClock) NormalizeToWeekKey(raw string) models.WeekKey {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return wc.CurrentWeekKey()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return wc.WeekKeyFor(t)
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, wc.loc); err == nil {
			return models.WeekKeyFromDate(t.Year(), t.Month(), t.Day())
		}
	}
	return wc.CurrentWeekKey()
}

// RecentWeekKeys returns n keys, most recent first, starting with the
// current week.
func (wc *WeekClock) RecentWeekKeys(n int) []models.WeekKey {
	if n <= 0 {
		return []models.WeekKey{}
	}
	current, _ := wc.CurrentWeekKey().Date()
	keys := make([]models.WeekKey, n)
	for i := 0; i < n; i++ {
		keys[i] = models.WeekKey(current.AddDate(0, 0, -7*i).Format(models.WeekKeyLayout))
	}
	return keys
}

// WeeksBetween returns the number of whole weeks from one key to another,
// negative when to precedes from.
func WeeksBetween(from, to models.WeekKey) (int, error) {
	a, err := from.Date()
	if err != nil {
		return 0, err
	}
	b, err := to.Date()
	if err != nil {
		return 0, err
	}
	days := int(b.Sub(a).Hours() / 24)
	return days / 7, nil
}
