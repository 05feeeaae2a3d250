package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/store"
)

const noCategory = "(none)"

var categoryColors = []string{"#3b82f6", "#22c55e", "#f59e0b", "#ef4444", "#a855f7", "#64748b"}

// weekdayOptions lists days Monday first, the way the schedule is shown
func weekdayOptions() []string {
	options := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		options = append(options, time.Weekday((i+1)%7).String())
	}
	return options
}

func parseWeekday(name string) (int, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return int(d), true
		}
	}
	return 0, false
}

// showTaskDialog creates tasks, or edits task when it is not nil. A new task
// may repeat on several days; an existing one keeps the day it was created on.
func (cw *ConfigWindow) showTaskDialog(task *models.Task) {
	textEntry := widget.NewEntry()
	textEntry.SetPlaceHolder("e.g., Họp giao ban")

	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("HH:MM")
	timeEntry.Validator = func(s string) error {
		_, _, err := models.ParseClock(s)
		return err
	}

	categories := cw.sb.tasks.Categories()
	categoryOptions := []string{noCategory}
	for _, c := range categories {
		categoryOptions = append(categoryOptions, c.Name)
	}
	categorySelect := widget.NewSelect(categoryOptions, nil)
	categorySelect.SetSelected(noCategory)

	daysGroup := widget.NewCheckGroup(weekdayOptions(), nil)
	daysGroup.Horizontal = true

	title, confirm := "Add Task", "Create"
	var dayItem *widget.FormItem
	if task == nil {
		daysGroup.SetSelected([]string{time.Now().Weekday().String()})
		dayItem = widget.NewFormItem("Days", daysGroup)
	} else {
		title, confirm = "Edit Task", "Save"
		textEntry.SetText(task.Text)
		timeEntry.SetText(task.Time)
		if name := cw.categoryName(task.CategoryID); name != "" {
			categorySelect.SetSelected(name)
		}
		dayLabel := widget.NewLabel(task.Weekday().String())
		dayLabel.Importance = widget.MediumImportance
		dayItem = widget.NewFormItem("Day", dayLabel)
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Task", textEntry),
		widget.NewFormItem("Time", timeEntry),
		dayItem,
		widget.NewFormItem("Category", categorySelect),
	}

	categoryID := func() string {
		for _, c := range categories {
			if c.Name == categorySelect.Selected {
				return c.ID
			}
		}
		return ""
	}

	form := dialog.NewForm(title, confirm, "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		var err error
		if task == nil {
			days := make([]int, 0, len(daysGroup.Selected))
			for _, name := range daysGroup.Selected {
				if day, ok := parseWeekday(name); ok {
					days = append(days, day)
				}
			}
			var created []models.Task
			created, err = cw.sb.tasks.Create(store.TaskInput{
				Days:       days,
				Time:       timeEntry.Text,
				Text:       textEntry.Text,
				CategoryID: categoryID(),
			})
			if err == nil {
				log.Printf("Created %d tasks for %q", len(created), textEntry.Text)
			}
		} else {
			err = cw.sb.tasks.Update(task.ID, store.TaskEdit{
				Time:       timeEntry.Text,
				Text:       textEntry.Text,
				CategoryID: categoryID(),
			})
		}
		if err != nil {
			dialog.ShowError(taskError(err), cw.window)
		}
	}, cw.window)

	form.Resize(fyne.NewSize(640, 320))
	form.Show()
}

func (cw *ConfigWindow) toggleTask(task models.Task) {
	if err := cw.sb.tasks.ToggleComplete(task.ID); err != nil {
		dialog.ShowError(err, cw.window)
	}
}

func (cw *ConfigWindow) showDeleteTaskDialog() {
	if len(cw.schedulesData) == 0 {
		dialog.ShowInformation("No Tasks", "There are no tasks to delete.", cw.window)
		return
	}

	task, ok := cw.selectedTask()
	if !ok {
		dialog.ShowInformation("No Selection", "Please select a task to delete.", cw.window)
		return
	}

	message := fmt.Sprintf("Delete '%s' on %s at %s?", task.Text, task.Weekday(), task.Time)
	if task.SourceID != "" {
		message += "\n\nIt comes from a calendar and will return on the next sync."
	}

	dialog.ShowConfirm("Delete Task", message, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := cw.sb.tasks.Delete(task.ID); err != nil {
			dialog.ShowError(err, cw.window)
		}
	}, cw.window)
}

// showCategoriesDialog adds or removes categories. Removing one leaves its
// tasks uncategorized.
func (cw *ConfigWindow) showCategoriesDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("New category")
	colorSelect := widget.NewSelect(categoryColors, nil)
	colorSelect.SetSelected(categoryColors[0])

	existing := cw.sb.tasks.Categories()
	names := []string{}
	for _, c := range existing {
		names = append(names, c.Name)
	}
	removeSelect := widget.NewSelect(names, nil)
	removeSelect.PlaceHolder = "Keep all"

	items := []*widget.FormItem{
		widget.NewFormItem("Add", nameEntry),
		widget.NewFormItem("Color", colorSelect),
		widget.NewFormItem("Remove", removeSelect),
	}

	dialog.ShowForm("Categories", "Apply", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		if nameEntry.Text != "" {
			if _, err := cw.sb.tasks.AddCategory(nameEntry.Text, colorSelect.Selected); err != nil {
				dialog.ShowError(err, cw.window)
				return
			}
		}
		for _, c := range existing {
			if c.Name == removeSelect.Selected {
				if err := cw.sb.tasks.DeleteCategory(c.ID); err != nil {
					dialog.ShowError(err, cw.window)
				}
				break
			}
		}
	}, cw.window)
}

// taskError turns store validation errors into something a user can act on
func taskError(err error) error {
	switch {
	case errors.Is(err, models.ErrMalformedTime):
		return errors.New("Time must look like 08:30 (24-hour clock)")
	case errors.Is(err, store.ErrInvalidTask):
		return errors.New("Please enter the task text and pick at least one day")
	}
	return err
}
