package store

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) (fyne.Preferences, *ProfileStore, *TaskStore, *SettingsStore) {
	t.Helper()
	prefs := test.NewTempApp(t).Preferences()
	profiles := NewProfileStore(prefs)
	return prefs, profiles, NewTaskStore(prefs, profiles), NewSettingsStore(prefs, profiles)
}

func TestFiredSet(t *testing.T) {
	fs := NewFiredSet()
	fs.Add("b-main", "a-pre")
	fs.Add("b-main")

	assert.True(t, fs.Contains("a-pre"))
	assert.False(t, fs.Contains("a-main"))
	assert.Equal(t, 2, fs.Len())
	assert.Equal(t, []models.FiredKey{"a-pre", "b-main"}, fs.Keys())

	fs.Clear()
	assert.Equal(t, 0, fs.Len())
	assert.False(t, fs.Contains("a-pre"))
}

func TestProfileStore_Defaults(t *testing.T) {
	_, profiles, _, _ := newStores(t)

	assert.Equal(t, DefaultProfile, profiles.Active())
	assert.Equal(t, []string{DefaultProfile}, profiles.List())
	assert.ErrorIs(t, profiles.Delete(DefaultProfile), ErrDefaultProfile)
}

func TestProfileStore_AddSwitchDelete(t *testing.T) {
	prefs, profiles, tasks, _ := newStores(t)

	require.NoError(t, profiles.Add("Work"))
	assert.Equal(t, "Work", profiles.Active())
	assert.ErrorIs(t, profiles.Add("Work"), ErrProfileExists)
	assert.ErrorIs(t, profiles.Add("  "), ErrEmptyName)

	_, err := tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: "Standup"})
	require.NoError(t, err)
	require.NotEmpty(t, prefs.String("schedules-Work"))

	require.NoError(t, profiles.Switch(DefaultProfile))
	assert.Empty(t, tasks.List())
	assert.ErrorIs(t, profiles.Switch("Nope"), ErrProfileNotFound)

	require.NoError(t, profiles.Switch("Work"))
	require.NoError(t, profiles.Delete("Work"))
	assert.Equal(t, DefaultProfile, profiles.Active())
	assert.Empty(t, prefs.String("schedules-Work"))
	assert.Equal(t, []string{DefaultProfile}, profiles.List())
}

func TestProfileStore_Reload(t *testing.T) {
	prefs, profiles, _, _ := newStores(t)
	require.NoError(t, profiles.Add("Home"))

	reloaded := NewProfileStore(prefs)

	assert.Equal(t, "Home", reloaded.Active())
	assert.Equal(t, []string{DefaultProfile, "Home"}, reloaded.List())
}

func TestTaskStore_CreateOnePerDay(t *testing.T) {
	_, _, tasks, _ := newStores(t)

	created, err := tasks.Create(TaskInput{Days: []int{1, 3, 5}, Time: "08:15", Text: "Stretch"})

	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.NotEqual(t, created[0].ID, created[1].ID)
	assert.Len(t, tasks.List(), 3)
	assert.Len(t, tasks.ForDay(time.Wednesday), 1)
}

func TestTaskStore_CreateRejectsBadInput(t *testing.T) {
	_, _, tasks, _ := newStores(t)

	_, err := tasks.Create(TaskInput{Days: []int{1}, Time: "24:00", Text: "Late"})
	assert.ErrorIs(t, err, models.ErrMalformedTime)

	_, err = tasks.Create(TaskInput{Days: []int{1}, Time: "9:00", Text: "Short"})
	assert.ErrorIs(t, err, models.ErrMalformedTime)

	_, err = tasks.Create(TaskInput{Days: []int{7}, Time: "09:00", Text: "Bad day"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = tasks.Create(TaskInput{Time: "09:00", Text: "No days"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = tasks.Create(TaskInput{Days: []int{1}, Time: "09:00"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: " \t "})
	assert.ErrorIs(t, err, ErrInvalidTask, "blank text")

	assert.Empty(t, tasks.List())
}

func TestTaskStore_ForDaySortedByTime(t *testing.T) {
	_, _, tasks, _ := newStores(t)
	for _, at := range []string{"17:00", "08:00", "12:30"} {
		_, err := tasks.Create(TaskInput{Days: []int{2}, Time: at, Text: at})
		require.NoError(t, err)
	}

	got := tasks.ForDay(time.Tuesday)

	require.Len(t, got, 3)
	assert.Equal(t, "08:00", got[0].Time)
	assert.Equal(t, "12:30", got[1].Time)
	assert.Equal(t, "17:00", got[2].Time)
}

func TestTaskStore_UpdateResetsCompletion(t *testing.T) {
	_, _, tasks, _ := newStores(t)
	created, err := tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: "Standup"})
	require.NoError(t, err)
	id := created[0].ID

	require.NoError(t, tasks.ToggleComplete(id))
	task, err := tasks.Get(id)
	require.NoError(t, err)
	require.True(t, task.IsCompleted)

	require.NoError(t, tasks.Update(id, TaskEdit{Time: "10:00", Text: " Sync "}))

	task, err = tasks.Get(id)
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, 1, task.Day, "the weekday stays as created")
	assert.Equal(t, "10:00", task.Time)
	assert.Equal(t, "Sync", task.Text)

	assert.ErrorIs(t, tasks.Update(id, TaskEdit{Time: "1000", Text: "x"}), models.ErrMalformedTime)
	assert.ErrorIs(t, tasks.Update(id, TaskEdit{Time: "10:00", Text: "   "}), ErrInvalidTask)
	assert.ErrorIs(t, tasks.Update("missing", TaskEdit{Time: "10:00", Text: "x"}), ErrTaskNotFound)
}

func TestTaskStore_DeleteAndToggleMissing(t *testing.T) {
	_, _, tasks, _ := newStores(t)
	created, err := tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: "Standup"})
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(created[0].ID))
	assert.Empty(t, tasks.List())
	assert.ErrorIs(t, tasks.Delete(created[0].ID), ErrTaskNotFound)
	assert.ErrorIs(t, tasks.ToggleComplete(created[0].ID), ErrTaskNotFound)
}

func TestTaskStore_PersistsAcrossInstances(t *testing.T) {
	prefs, profiles, tasks, _ := newStores(t)
	_, err := tasks.Create(TaskInput{Days: []int{4}, Time: "16:00", Text: "Review"})
	require.NoError(t, err)

	reloaded := NewTaskStore(prefs, profiles)

	got := reloaded.List()
	require.Len(t, got, 1)
	assert.Equal(t, "Review", got[0].Text)
}

func TestTaskStore_ReplaceFromSourceKeepsCompletion(t *testing.T) {
	_, _, tasks, _ := newStores(t)
	_, err := tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: "Manual"})
	require.NoError(t, err)

	require.NoError(t, tasks.ReplaceFromSource("cal", []models.Task{
		{ID: "uid1-1", Day: 1, Time: "10:00", Text: "Planning"},
		{ID: "uid2-3", Day: 3, Time: "11:00", Text: "Retro"},
	}))
	require.NoError(t, tasks.ToggleComplete("uid1-1"))

	require.NoError(t, tasks.ReplaceFromSource("cal", []models.Task{
		{ID: "uid1-1", Day: 1, Time: "10:30", Text: "Planning"},
	}))

	all := tasks.List()
	require.Len(t, all, 2)
	assert.Equal(t, "Manual", all[0].Text)
	assert.Equal(t, "uid1-1", all[1].ID)
	assert.Equal(t, "10:30", all[1].Time)
	assert.Equal(t, "cal", all[1].SourceID)
	assert.True(t, all[1].IsCompleted)
}

func TestTaskStore_CategoriesDoNotCascade(t *testing.T) {
	_, _, tasks, _ := newStores(t)
	category, err := tasks.AddCategory("Health", "#4caf50")
	require.NoError(t, err)
	_, err = tasks.Create(TaskInput{Days: []int{1}, Time: "07:00", Text: "Run", CategoryID: category.ID})
	require.NoError(t, err)

	got, ok := tasks.Category(category.ID)
	require.True(t, ok)
	assert.Equal(t, "Health", got.Name)

	require.NoError(t, tasks.DeleteCategory(category.ID))
	assert.Empty(t, tasks.Categories())
	assert.Equal(t, category.ID, tasks.List()[0].CategoryID)
	assert.ErrorIs(t, tasks.DeleteCategory(category.ID), ErrCategoryNotFound)
}

func TestTaskStore_OnChange(t *testing.T) {
	_, profiles, tasks, _ := newStores(t)
	calls := 0
	tasks.OnChange(func() { calls++ })

	_, err := tasks.Create(TaskInput{Days: []int{1}, Time: "09:00", Text: "Standup"})
	require.NoError(t, err)
	require.NoError(t, profiles.Add("Other"))

	assert.Equal(t, 2, calls)
}

func TestSettingsStore_DefaultsAndPerProfile(t *testing.T) {
	_, profiles, _, settings := newStores(t)

	assert.Equal(t, models.DefaultNotificationSettings(), settings.Notification())

	s := settings.Notification()
	s.UserName = "Lan"
	s.PreNotificationTime = 10
	require.NoError(t, settings.SaveNotification(s))
	assert.Equal(t, "Lan", settings.Notification().UserName)

	require.NoError(t, profiles.Add("Night"))
	assert.Equal(t, models.DefaultNotificationSettings(), settings.Notification())

	require.NoError(t, profiles.Switch(DefaultProfile))
	assert.Equal(t, 10, settings.Notification().PreNotificationTime)
}

func TestSettingsStore_PartialDataKeepsDefaults(t *testing.T) {
	prefs, profiles, _, _ := newStores(t)
	prefs.SetString("settings-"+DefaultProfile, `{"userName":"Minh"}`)

	settings := NewSettingsStore(prefs, profiles)
	got := settings.Notification()

	assert.Equal(t, "Minh", got.UserName)
	assert.Equal(t, models.DefaultNotificationSettings().NotificationPrefix, got.NotificationPrefix)
}

func TestSettingsStore_CorruptDataFallsBack(t *testing.T) {
	prefs, profiles, _, _ := newStores(t)
	prefs.SetString("settings-"+DefaultProfile, `{not json`)

	settings := NewSettingsStore(prefs, profiles)

	assert.Equal(t, models.DefaultNotificationSettings(), settings.Notification())
}

func TestSettingsStore_Config(t *testing.T) {
	_, _, _, settings := newStores(t)

	config := settings.LoadConfig()
	assert.Equal(t, 30, config.UpdateInterval)
	assert.Empty(t, config.ICalSources)

	config.AutoStart = true
	config.ICalSources = []models.ICalSource{{ID: "s1", Name: "Team", URL: "https://example.com/team.ics"}}
	settings.SaveConfig(config)

	reloaded := settings.LoadConfig()
	assert.True(t, reloaded.AutoStart)
	require.Len(t, reloaded.ICalSources, 1)
	assert.Equal(t, "Team", reloaded.ICalSources[0].Name)
}
