package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

const (
	schedulesKeyPrefix  = "schedules-"
	categoriesKeyPrefix = "categories-"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidTask      = errors.New("invalid task")
)

// TaskInput describes a new task. One task is created for every selected day.
type TaskInput struct {
	Days       []int  `validate:"required,min=1,dive,min=0,max=6"`
	Time       string `validate:"required,clock"`
	Text       string `validate:"notblank"`
	CategoryID string
}

// TaskEdit replaces the editable fields of an existing task. The weekday is
// fixed when the task is created.
type TaskEdit struct {
	Time       string `validate:"required,clock"`
	Text       string `validate:"notblank"`
	CategoryID string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, _, err := models.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "clock" {
				return fmt.Errorf("%w: %q", models.ErrMalformedTime, fe.Value())
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidTask, fieldErrs.Error())
	}
	return err
}

type profileData struct {
	profile    string
	tasks      []models.Task
	categories []models.Category
}

// TaskStore manages the weekly tasks and categories of the active profile
type TaskStore struct {
	mu       sync.RWMutex
	prefs    fyne.Preferences
	profiles *ProfileStore

	// Loaded lazily per profile
	data map[string]*profileData

	listeners []func()
}

// NewTaskStore creates a new TaskStore instance
func NewTaskStore(prefs fyne.Preferences, profiles *ProfileStore) *TaskStore {
	ts := &TaskStore{
		prefs:    prefs,
		profiles: profiles,
		data:     make(map[string]*profileData),
	}
	profiles.onDeleted(ts.forget)
	profiles.OnSwitch(func(string) { ts.notify() })
	return ts
}

// OnChange registers a callback run after tasks or categories change
func (ts *TaskStore) OnChange(fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.listeners = append(ts.listeners, fn)
}

// List returns a snapshot of all tasks in stored order
func (ts *TaskStore) List() []models.Task {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	d := ts.activeLocked()
	return append([]models.Task(nil), d.tasks...)
}

// ForDay returns the tasks of one weekday sorted by time
func (ts *TaskStore) ForDay(day time.Weekday) []models.Task {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	result := make([]models.Task, 0)
	for _, task := range ts.activeLocked().tasks {
		if task.Weekday() == day {
			result = append(result, task)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})
	return result
}

// Get returns a task by ID
func (ts *TaskStore) Get(id string) (models.Task, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	d := ts.activeLocked()
	idx := findTask(d.tasks, id)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return d.tasks[idx], nil
}

// Create adds one task for every selected day and returns them
func (ts *TaskStore) Create(in TaskInput) ([]models.Task, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	ts.mu.Lock()
	d := ts.activeLocked()
	created := make([]models.Task, 0, len(in.Days))
	for _, day := range in.Days {
		task := models.Task{
			ID:         uuid.New().String(),
			Day:        day,
			Time:       in.Time,
			Text:       strings.TrimSpace(in.Text),
			CategoryID: in.CategoryID,
		}
		d.tasks = append(d.tasks, task)
		created = append(created, task)
	}
	err := ts.saveTasksLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return nil, err
	}
	ts.notify()
	return created, nil
}

// Update replaces a task's fields. An edited task is no longer completed.
func (ts *TaskStore) Update(id string, edit TaskEdit) error {
	if err := validateInput(edit); err != nil {
		return err
	}

	err := ts.mutateTask(id, func(task *models.Task) {
		task.Time = edit.Time
		task.Text = strings.TrimSpace(edit.Text)
		task.CategoryID = edit.CategoryID
		task.IsCompleted = false
	})
	return err
}

// ToggleComplete flips a task's completion flag
func (ts *TaskStore) ToggleComplete(id string) error {
	return ts.mutateTask(id, func(task *models.Task) {
		task.IsCompleted = !task.IsCompleted
	})
}

// SetComplete marks a task completed or not
func (ts *TaskStore) SetComplete(id string, completed bool) error {
	return ts.mutateTask(id, func(task *models.Task) {
		task.IsCompleted = completed
	})
}

// Delete removes a task
func (ts *TaskStore) Delete(id string) error {
	ts.mu.Lock()
	d := ts.activeLocked()
	idx := findTask(d.tasks, id)
	if idx < 0 {
		ts.mu.Unlock()
		return ErrTaskNotFound
	}
	d.tasks = append(d.tasks[:idx], d.tasks[idx+1:]...)
	err := ts.saveTasksLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return err
	}
	ts.notify()
	return nil
}

// ReplaceFromSource swaps every task imported from sourceID for the given tasks.
// Tasks that keep their ID keep their completion state.
func (ts *TaskStore) ReplaceFromSource(sourceID string, tasks []models.Task) error {
	ts.mu.Lock()
	d := ts.activeLocked()

	completed := make(map[string]bool)
	kept := make([]models.Task, 0, len(d.tasks)+len(tasks))
	for _, task := range d.tasks {
		if task.SourceID == sourceID {
			completed[task.ID] = task.IsCompleted
			continue
		}
		kept = append(kept, task)
	}
	for _, task := range tasks {
		task.SourceID = sourceID
		task.IsCompleted = completed[task.ID]
		kept = append(kept, task)
	}
	d.tasks = kept
	err := ts.saveTasksLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return err
	}
	ts.notify()
	return nil
}

// Categories returns the categories of the active profile
func (ts *TaskStore) Categories() []models.Category {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	return append([]models.Category(nil), ts.activeLocked().categories...)
}

// Category returns a category by ID
func (ts *TaskStore) Category(id string) (models.Category, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, c := range ts.activeLocked().categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// AddCategory creates a category
func (ts *TaskStore) AddCategory(name, color string) (models.Category, error) {
	if name == "" {
		return models.Category{}, ErrEmptyName
	}

	ts.mu.Lock()
	d := ts.activeLocked()
	category := models.Category{ID: uuid.New().String(), Name: name, Color: color}
	d.categories = append(d.categories, category)
	err := ts.saveCategoriesLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return models.Category{}, err
	}
	ts.notify()
	return category, nil
}

// DeleteCategory removes a category. Tasks referencing it are left untouched.
func (ts *TaskStore) DeleteCategory(id string) error {
	ts.mu.Lock()
	d := ts.activeLocked()
	idx := -1
	for i, c := range d.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		ts.mu.Unlock()
		return ErrCategoryNotFound
	}
	d.categories = append(d.categories[:idx], d.categories[idx+1:]...)
	err := ts.saveCategoriesLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return err
	}
	ts.notify()
	return nil
}

func (ts *TaskStore) mutateTask(id string, fn func(task *models.Task)) error {
	ts.mu.Lock()
	d := ts.activeLocked()
	idx := findTask(d.tasks, id)
	if idx < 0 {
		ts.mu.Unlock()
		return ErrTaskNotFound
	}
	fn(&d.tasks[idx])
	err := ts.saveTasksLocked(d)
	ts.mu.Unlock()

	if err != nil {
		return err
	}
	ts.notify()
	return nil
}

func (ts *TaskStore) activeLocked() *profileData {
	profile := ts.profiles.Active()
	if d, ok := ts.data[profile]; ok {
		return d
	}

	d := &profileData{profile: profile, tasks: []models.Task{}, categories: []models.Category{}}
	if raw := ts.prefs.String(schedulesKeyPrefix + profile); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.tasks); err != nil {
			log.Printf("Failed to decode tasks for profile %q: %v", profile, err)
			d.tasks = []models.Task{}
		}
	}
	if raw := ts.prefs.String(categoriesKeyPrefix + profile); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.categories); err != nil {
			log.Printf("Failed to decode categories for profile %q: %v", profile, err)
			d.categories = []models.Category{}
		}
	}
	ts.data[profile] = d
	return d
}

func (ts *TaskStore) saveTasksLocked(d *profileData) error {
	data, err := json.Marshal(d.tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	ts.prefs.SetString(schedulesKeyPrefix+d.profile, string(data))
	return nil
}

func (ts *TaskStore) saveCategoriesLocked(d *profileData) error {
	data, err := json.Marshal(d.categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	ts.prefs.SetString(categoriesKeyPrefix+d.profile, string(data))
	return nil
}

func (ts *TaskStore) forget(profile string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.data, profile)
}

func (ts *TaskStore) notify() {
	ts.mu.RLock()
	listeners := append([]func(){}, ts.listeners...)
	ts.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func findTask(tasks []models.Task, id string) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}
