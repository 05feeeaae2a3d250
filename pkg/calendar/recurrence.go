package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var errNotWeekly = errors.New("not a weekly rule")

// weeklyRule is the part of an RRULE a weekly task can represent
type weeklyRule struct {
	days     []time.Weekday // in the DTSTART time zone
	interval int
	ended    bool
}

// parseWeeklyRule reads a FREQ=WEEKLY rule. Days default to the DTSTART weekday.
// ended is true when UNTIL or COUNT leave no occurrence after now.
func parseWeeklyRule(value string, dtstart, now time.Time) (weeklyRule, error) {
	opt, err := rrule.StrToROption(strings.TrimPrefix(value, "RRULE:"))
	if err != nil {
		return weeklyRule{}, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	if opt.Freq != rrule.WEEKLY {
		return weeklyRule{}, errNotWeekly
	}

	rule := weeklyRule{interval: opt.Interval}
	if rule.interval < 1 {
		rule.interval = 1
	}

	seen := make(map[time.Weekday]bool)
	for _, wd := range opt.Byweekday {
		// rrule-go counts from Monday
		day := time.Weekday((wd.Day() + 1) % 7)
		if !seen[day] {
			seen[day] = true
			rule.days = append(rule.days, day)
		}
	}
	if len(rule.days) == 0 {
		rule.days = []time.Weekday{dtstart.Weekday()}
	}

	if !opt.Until.IsZero() || opt.Count > 0 {
		opt.Dtstart = dtstart
		r, err := rrule.NewRRule(*opt)
		if err != nil {
			return weeklyRule{}, fmt.Errorf("failed to build RRULE: %w", err)
		}
		rule.ended = r.After(now, true).IsZero()
	}

	return rule, nil
}

// shiftDays moves weekdays by offset days, for when converting the start time to
// local time crosses midnight.
func shiftDays(days []time.Weekday, offset int) []time.Weekday {
	shifted := make([]time.Weekday, len(days))
	for i, d := range days {
		shifted[i] = time.Weekday(((int(d)+offset)%7 + 7) % 7)
	}
	return shifted
}
