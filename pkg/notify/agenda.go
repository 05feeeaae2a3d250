package notify

import (
	"sort"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
)

// Status of an agenda entry relative to now
type Status string

const (
	StatusUpcoming Status = "Upcoming"
	StatusFired    Status = "Fired"
	StatusMissed   Status = "Missed"
	StatusDone     Status = "Done"
)

// AgendaEntry is one thing that will ring, or already rang, today
type AgendaEntry struct {
	Time   string // HH:MM
	Text   string
	TaskID string // empty for workday milestones
	Status Status
}

// IsTask reports whether the entry comes from a task rather than a milestone
func (e AgendaEntry) IsTask() bool {
	return e.TaskID != ""
}

// Agenda lists today's tasks and workday milestones sorted by time. A task
// whose main notification already fired is Fired; one whose time passed without
// firing (the app was not running) is Missed.
func Agenda(now time.Time, tasks []models.Task, settings models.NotificationSettings, fired FiredLookup) []AgendaEntry {
	today := now.Weekday()
	current := models.FormatClock(now)

	status := func(clock string, key models.FiredKey) Status {
		switch {
		case fired.Contains(key):
			return StatusFired
		case clock > current:
			return StatusUpcoming
		case clock == current:
			// Fires on the next tick
			return StatusUpcoming
		default:
			return StatusMissed
		}
	}

	var entries []AgendaEntry
	for _, task := range tasks {
		if task.Weekday() != today {
			continue
		}
		entry := AgendaEntry{Time: task.Time, Text: task.Text, TaskID: task.ID}
		if task.IsCompleted {
			entry.Status = StatusDone
		} else {
			entry.Status = status(task.Time, models.MainKey(task.ID))
		}
		entries = append(entries, entry)
	}

	if settings.WorkdayNotificationsEnabled && models.IsWorkday(today) {
		for _, m := range WorkdayMilestones(settings) {
			entries = append(entries, AgendaEntry{
				Time:   m.Time,
				Text:   m.Message,
				Status: status(m.Time, models.WorkdayKey(m.Time)),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})
	return entries
}

// Upcoming returns at most limit entries that have not rung yet
func Upcoming(entries []AgendaEntry, limit int) []AgendaEntry {
	var out []AgendaEntry
	for _, e := range entries {
		if e.Status != StatusUpcoming {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
