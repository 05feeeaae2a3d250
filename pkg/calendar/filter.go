package calendar

import (
	"log"
)

func shouldIncludeEvent(ev weeklyEvent, stats *filterStats) bool {
	switch {
	case ev.start.IsZero():
		stats.filteredMissingTime++
		log.Printf("  [FILTERED] Missing time - Event: \"%s\"", ev.summary)
	case ev.status == "CANCELLED":
		stats.filteredCancelled++
		log.Printf("  [FILTERED] [Cancelled] - Event: \"%s\"", ev.summary)
	case ev.allDay:
		stats.filteredAllDay++
		log.Printf("  [FILTERED] [All-day] - Event: \"%s\" (Start: %s)", ev.summary, ev.start.Format("2006-01-02"))
	case ev.rrule == "":
		stats.filteredNotWeekly++
		log.Printf("  [FILTERED] [One-off] - Event: \"%s\" (Start: %s)", ev.summary, ev.start.Format("2006-01-02 15:04"))
	default:
		return true
	}
	return false
}

type filterStats struct {
	totalComponents     int
	totalEvents         int
	filteredMissingTime int
	filteredCancelled   int
	filteredAllDay      int
	filteredNotWeekly   int
	filteredEnded       int
	filteredOverrides   int
	filteredDuplicates  int
}

func (s *filterStats) filtered() int {
	return s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay + s.filteredNotWeekly +
		s.filteredEnded + s.filteredOverrides + s.filteredDuplicates
}

func (s *filterStats) logSummary(includedCount int) {
	log.Printf("  [SUMMARY] Total components: %d, Events: %d, Tasks: %d, Filtered events: %d",
		s.totalComponents, s.totalEvents, includedCount, s.filtered())
	if s.filtered() > 0 {
		log.Printf("  Filtered breakdown: %d cancelled, %d all-day, %d not weekly, %d ended, %d overrides, %d missing time, %d duplicates",
			s.filteredCancelled, s.filteredAllDay, s.filteredNotWeekly, s.filteredEnded,
			s.filteredOverrides, s.filteredMissingTime, s.filteredDuplicates)
	}
}
