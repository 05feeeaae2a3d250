package calendar

import (
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/emersion/go-ical"
)

// weeklyEvent holds the VEVENT fields a weekly task is built from
type weeklyEvent struct {
	uid      string
	summary  string
	status   string
	start    time.Time
	allDay   bool
	rrule    string
	override bool // has RECURRENCE-ID
}

// ParseTasks decodes an iCalendar stream and returns one task per weekday of
// every timed weekly event. Times are converted to loc.
func ParseTasks(r io.Reader, sourceID string, loc *time.Location, now time.Time) ([]models.Task, error) {
	decoder := ical.NewDecoder(r)
	tasks := []models.Task{}
	seen := make(map[string]bool)
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			stats.totalComponents++
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			normalizeTimezones(comp)
			ev := parseEvent(comp, loc)
			if ev.override {
				stats.filteredOverrides++
				continue
			}
			if !shouldIncludeEvent(ev, stats) {
				continue
			}

			rule, err := parseWeeklyRule(ev.rrule, ev.start, now)
			if errors.Is(err, errNotWeekly) {
				stats.filteredNotWeekly++
				log.Printf("  [FILTERED] [Not weekly] - Event: \"%s\" (RRULE: %s)", ev.summary, ev.rrule)
				continue
			}
			if err != nil {
				log.Printf("  [FILTERED] [Bad RRULE] - Event: \"%s\": %v", ev.summary, err)
				continue
			}
			if rule.ended {
				stats.filteredEnded++
				log.Printf("  [FILTERED] [Ended] - Event: \"%s\"", ev.summary)
				continue
			}
			if rule.interval > 1 {
				log.Printf("  [RECURRING] Event: \"%s\" repeats every %d weeks, importing as weekly", ev.summary, rule.interval)
			}

			uid := ev.uid
			if uid == "" {
				uid = sourceID + "-" + ev.start.Format(time.RFC3339) + "-" + ev.summary
			}
			local := ev.start.In(loc)
			for _, day := range shiftDays(rule.days, dayOffset(ev.start, local)) {
				id := fmt.Sprintf("%s-%d", uid, int(day))
				if seen[id] {
					stats.filteredDuplicates++
					log.Printf("  [FILTERED] Duplicate (ID) - Event: \"%s\" (ID: %s)", ev.summary, id)
					continue
				}
				seen[id] = true
				tasks = append(tasks, models.Task{
					ID:       id,
					Day:      int(day),
					Time:     models.FormatClock(local),
					Text:     ev.summary,
					SourceID: sourceID,
				})
			}
		}
	}

	stats.logSummary(len(tasks))
	return tasks, nil
}

func parseEvent(comp *ical.Component, loc *time.Location) weeklyEvent {
	ev := weeklyEvent{}

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		ev.uid = prop.Value
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		ev.summary = strings.TrimSpace(prop.Value)
	}
	if prop := comp.Props.Get(ical.PropStatus); prop != nil {
		ev.status = strings.ToUpper(prop.Value)
	}
	// Some providers only rename cancelled meetings
	if ev.status != "CANCELLED" && isCancelledTitle(ev.summary) {
		ev.status = "CANCELLED"
	}
	if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
		ev.allDay = prop.ValueType() == ical.ValueDate || len(prop.Value) == len("20060102")
		if t, err := parseDateTimeProperty(prop, loc); err == nil {
			ev.start = t
		}
	}
	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
		ev.rrule = prop.Value
	}
	ev.override = comp.Props.Get(ical.PropRecurrenceID) != nil

	return ev
}

func parseDateTimeProperty(prop *ical.Prop, loc *time.Location) (time.Time, error) {
	if t, err := prop.DateTime(loc); err == nil {
		return t, nil
	}

	// Fall back to the raw value for feeds with unknown TZIDs
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}

// dayOffset returns how many calendar days local is ahead of original
func dayOffset(original, local time.Time) int {
	a := time.Date(original.Year(), original.Month(), original.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func isCancelledTitle(title string) bool {
	clean := nonAlnum.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}
