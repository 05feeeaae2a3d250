package notify

import (
	"testing"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgenda_StatusesAndOrder(t *testing.T) {
	tasks := []models.Task{
		{ID: "late", Day: int(time.Wednesday), Time: "17:30", Text: "Review"},
		{ID: "done", Day: int(time.Wednesday), Time: "08:00", Text: "Gym", IsCompleted: true},
		{ID: "fired", Day: int(time.Wednesday), Time: "09:00", Text: "Standup"},
		{ID: "missed", Day: int(time.Wednesday), Time: "09:30", Text: "Email"},
		{ID: "other-day", Day: int(time.Thursday), Time: "10:00", Text: "Nope"},
	}
	fired := store.NewFiredSet()
	fired.Add(models.MainKey("fired"))

	entries := Agenda(wednesday(10, 0), tasks, quietSettings(), fired)

	require.Len(t, entries, 4)
	assert.Equal(t, []string{"08:00", "09:00", "09:30", "17:30"}, []string{
		entries[0].Time, entries[1].Time, entries[2].Time, entries[3].Time,
	})
	assert.Equal(t, StatusDone, entries[0].Status)
	assert.Equal(t, StatusFired, entries[1].Status)
	assert.Equal(t, StatusMissed, entries[2].Status)
	assert.Equal(t, StatusUpcoming, entries[3].Status)
	assert.True(t, entries[3].IsTask())
}

func TestAgenda_CurrentMinuteIsUpcoming(t *testing.T) {
	entries := Agenda(wednesday(9, 0), []models.Task{standup()}, quietSettings(), store.NewFiredSet())

	require.Len(t, entries, 1)
	assert.Equal(t, StatusUpcoming, entries[0].Status)
}

func TestAgenda_IncludesMilestonesOnWorkdays(t *testing.T) {
	settings := models.DefaultNotificationSettings()
	settings.WorkStartTime = "08:30"
	settings.WorkEndTime = "17:30"

	entries := Agenda(wednesday(12, 0), []models.Task{standup()}, settings, store.NewFiredSet())

	require.Len(t, entries, 3)
	assert.Equal(t, "08:30", entries[0].Time)
	assert.False(t, entries[0].IsTask())
	assert.Equal(t, StatusMissed, entries[0].Status)
	assert.Equal(t, "09:00", entries[1].Time)
	assert.Equal(t, "17:30", entries[2].Time)
	assert.Equal(t, StatusUpcoming, entries[2].Status)

	// Saturday has no milestones
	saturday := at(8, 12, 0, 0)
	assert.Empty(t, Agenda(saturday, nil, settings, store.NewFiredSet()))
}

func TestUpcoming(t *testing.T) {
	entries := []AgendaEntry{
		{Time: "08:00", Status: StatusFired},
		{Time: "09:00", Status: StatusUpcoming},
		{Time: "10:00", Status: StatusUpcoming},
		{Time: "11:00", Status: StatusUpcoming},
	}

	got := Upcoming(entries, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].Time)
	assert.Equal(t, "10:00", got[1].Time)
	assert.Empty(t, Upcoming(nil, 5))
}
