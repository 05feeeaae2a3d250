package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ics(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}
	for _, ev := range events {
		lines = append(lines, "BEGIN:VEVENT")
		lines = append(lines, strings.Split(strings.TrimSpace(ev), "\n")...)
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

const (
	standupEvent = `UID:standup
SUMMARY:Standup
DTSTART;TZID=Asia/Ho_Chi_Minh:20250303T090000
RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR`

	utcEvent = `UID:gym
SUMMARY:Gym
DTSTART:20250304T020000Z
RRULE:FREQ=WEEKLY`

	crossMidnightEvent = `UID:sync
SUMMARY:US sync
DTSTART:20250303T200000Z
RRULE:FREQ=WEEKLY;BYDAY=MO`

	windowsTZEvent = `UID:review
SUMMARY:Review
DTSTART;TZID=SE Asia Standard Time:20250306T140000
RRULE:FREQ=WEEKLY`

	cancelledEvent = `UID:old
SUMMARY:Old meeting
STATUS:CANCELLED
DTSTART:20250303T030000Z
RRULE:FREQ=WEEKLY`

	cancelledTitleEvent = `UID:old2
SUMMARY:Canceled: Retro
DTSTART:20250303T030000Z
RRULE:FREQ=WEEKLY`

	allDayEvent = `UID:holiday
SUMMARY:Day off
DTSTART;VALUE=DATE:20250303
RRULE:FREQ=WEEKLY`

	oneOffEvent = `UID:once
SUMMARY:Dentist
DTSTART:20250305T030000Z`

	dailyEvent = `UID:daily
SUMMARY:Vitamins
DTSTART:20250303T000000Z
RRULE:FREQ=DAILY`

	endedEvent = `UID:ended
SUMMARY:Last year
DTSTART:20230102T020000Z
RRULE:FREQ=WEEKLY;UNTIL=20240101T000000Z`

	countedEvent = `UID:counted
SUMMARY:Onboarding
DTSTART:20250106T020000Z
RRULE:FREQ=WEEKLY;COUNT=2`

	overrideEvent = `UID:standup
SUMMARY:Standup (moved)
RECURRENCE-ID;TZID=Asia/Ho_Chi_Minh:20250305T090000
DTSTART;TZID=Asia/Ho_Chi_Minh:20250305T100000`
)

var now = time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)

func hcm(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	return loc
}

func TestParseTasks_WeeklyEvents(t *testing.T) {
	body := ics(standupEvent, utcEvent, crossMidnightEvent, windowsTZEvent)

	tasks, err := ParseTasks(strings.NewReader(body), "src", hcm(t), now)

	require.NoError(t, err)
	assert.Equal(t, []models.Task{
		{ID: "standup-1", Day: 1, Time: "09:00", Text: "Standup", SourceID: "src"},
		{ID: "standup-3", Day: 3, Time: "09:00", Text: "Standup", SourceID: "src"},
		{ID: "standup-5", Day: 5, Time: "09:00", Text: "Standup", SourceID: "src"},
		{ID: "gym-2", Day: 2, Time: "09:00", Text: "Gym", SourceID: "src"},
		{ID: "sync-2", Day: 2, Time: "03:00", Text: "US sync", SourceID: "src"},
		{ID: "review-4", Day: 4, Time: "14:00", Text: "Review", SourceID: "src"},
	}, tasks)
}

func TestParseTasks_FiltersUnsupported(t *testing.T) {
	body := ics(cancelledEvent, cancelledTitleEvent, allDayEvent, oneOffEvent, dailyEvent, endedEvent, countedEvent, overrideEvent)

	tasks, err := ParseTasks(strings.NewReader(body), "src", hcm(t), now)

	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParseTasks_DuplicateIDs(t *testing.T) {
	tasks, err := ParseTasks(strings.NewReader(ics(utcEvent, utcEvent)), "src", hcm(t), now)

	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestParseTasks_MissingUID(t *testing.T) {
	ev := strings.Replace(utcEvent, "UID:gym\n", "", 1)

	tasks, err := ParseTasks(strings.NewReader(ics(ev)), "src", hcm(t), now)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, strings.HasPrefix(tasks[0].ID, "src-"))
	assert.True(t, strings.HasSuffix(tasks[0].ID, "-2"))
}

func TestParseWeeklyRule(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) // Monday

	rule, err := parseWeeklyRule("RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=SU,SA,SU", start, now)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, rule.days)
	assert.Equal(t, 2, rule.interval)
	assert.False(t, rule.ended)

	_, err = parseWeeklyRule("FREQ=MONTHLY", start, now)
	assert.ErrorIs(t, err, errNotWeekly)

	_, err = parseWeeklyRule("FREQ=SOMETIMES", start, now)
	assert.Error(t, err)
}

func TestShiftDays(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Saturday}

	assert.Equal(t, []time.Weekday{time.Monday, time.Sunday}, shiftDays(days, 1))
	assert.Equal(t, []time.Weekday{time.Saturday, time.Friday}, shiftDays(days, -1))
}

func newTestFetcher(t *testing.T) *Fetcher {
	f := NewFetcher(nil, clockwork.NewFakeClockAt(now))
	f.loc = hcm(t)
	return f
}

func TestFetchTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte("\ufeff" + ics(utcEvent)))
	}))
	defer srv.Close()

	tasks, err := newTestFetcher(t).FetchTasks(context.Background(), models.ICalSource{ID: "s1", Name: "Team", URL: srv.URL})

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "s1", tasks[0].SourceID)
}

func TestFetchTasks_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte("<!DOCTYPE html><html>sign in</html>"))
		case "/json":
			_, _ = w.Write([]byte(`{"events":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	f := newTestFetcher(t)

	_, err := f.FetchTasks(context.Background(), models.ICalSource{URL: srv.URL + "/login"})
	assert.ErrorContains(t, err, "HTML")

	_, err = f.FetchTasks(context.Background(), models.ICalSource{URL: srv.URL + "/json"})
	assert.ErrorContains(t, err, "BEGIN:VCALENDAR")

	_, err = f.FetchTasks(context.Background(), models.ICalSource{URL: srv.URL + "/missing"})
	assert.ErrorContains(t, err, "404")
}

type replacer struct {
	got map[string][]models.Task
}

func (r *replacer) ReplaceFromSource(sourceID string, tasks []models.Task) error {
	r.got[sourceID] = tasks
	return nil
}

func TestSync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(ics(standupEvent)))
	}))
	defer srv.Close()
	dst := &replacer{got: map[string][]models.Task{}}

	total, err := newTestFetcher(t).Sync(context.Background(), []models.ICalSource{
		{ID: "a", Name: "Team", URL: srv.URL + "/team.ics"},
		{ID: "b", Name: "Broken", URL: srv.URL + "/broken"},
		{ID: "c", Name: "", URL: srv.URL + "/unnamed"},
	}, dst)

	assert.ErrorContains(t, err, "Broken")
	assert.Equal(t, 3, total)
	assert.Len(t, dst.got["a"], 3)
	assert.NotContains(t, dst.got, "b")
	assert.NotContains(t, dst.got, "c")
}
