package main

import (
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/models"
)

var scheduleHeaders = []string{"Day", "Time", "Task", "Category", "Calendar", "Done"}

func (cw *ConfigWindow) buildSchedulesTab() fyne.CanvasObject {
	cw.schedulesData = cw.getWeekSchedule()
	cw.selectedScheduleRow = -1

	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(cw.schedulesData), len(scheduleHeaders)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(cw.schedulesData) {
				label.SetText("")
				return
			}
			task := cw.schedulesData[id.Row]

			switch id.Col {
			case 0:
				label.SetText(task.Weekday().String())
			case 1:
				label.SetText(task.Time)
			case 2:
				label.SetText(task.Text)
			case 3:
				label.SetText(cw.categoryName(task.CategoryID))
			case 4:
				label.SetText(cw.sourceName(task.SourceID))
			case 5:
				if task.IsCompleted {
					label.SetText("✓")
				} else {
					label.SetText("")
				}
			}

			// Gray out completed tasks, highlight today
			switch {
			case task.IsCompleted:
				label.Importance = widget.LowImportance
			case task.Weekday() == time.Now().Weekday():
				label.Importance = widget.HighImportance
			default:
				label.Importance = widget.MediumImportance
			}
			label.Refresh()
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		obj.(*widget.Label).SetText(scheduleHeaders[id.Col])
	}

	table.OnSelected = func(id widget.TableCellID) {
		cw.selectedScheduleRow = id.Row
	}

	for i, width := range []float32{110, 70, 320, 130, 130, 60} {
		table.SetColumnWidth(i, width)
	}

	cw.schedulesTable = table

	addButton := widget.NewButtonWithIcon("Add Task", theme.ContentAddIcon(), func() {
		cw.showTaskDialog(nil)
	})
	editButton := widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
		if task, ok := cw.selectedTask(); ok {
			cw.showTaskDialog(&task)
		}
	})
	toggleButton := widget.NewButtonWithIcon("Toggle Done", theme.ConfirmIcon(), func() {
		if task, ok := cw.selectedTask(); ok {
			cw.toggleTask(task)
		}
	})
	deleteButton := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		cw.showDeleteTaskDialog()
	})
	categoryButton := widget.NewButtonWithIcon("Categories", theme.ListIcon(), func() {
		cw.showCategoriesDialog()
	})

	helpText := widget.NewLabel("Tasks repeat every week on their day. Completed tasks stay silent until you clear them. Calendar tasks are replaced on every sync.")
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance

	headerContent := container.NewVBox(
		widget.NewLabel("Weekly Schedule"),
		widget.NewSeparator(),
		helpText,
		container.NewHBox(addButton, editButton, toggleButton, deleteButton, categoryButton),
	)

	cw.schedulesContainer = container.NewBorder(headerContent, nil, nil, nil, cw.schedulesContent())

	return container.NewPadded(cw.schedulesContainer)
}

func (cw *ConfigWindow) schedulesContent() fyne.CanvasObject {
	if len(cw.schedulesData) > 0 {
		return cw.schedulesTable
	}
	emptyStateText := widget.NewLabel("No tasks yet.\n\nTo get started:\n1. Click 'Add Task' and pick the days it repeats on\n2. Or add calendar sources in the Calendar tab and click 'Sync Now'")
	emptyStateText.Wrapping = fyne.TextWrapWord
	emptyStateText.Importance = widget.MediumImportance
	return container.NewPadded(emptyStateText)
}

func (cw *ConfigWindow) refreshSchedulesData() {
	if cw.schedulesContainer == nil {
		return
	}

	cw.schedulesData = cw.getWeekSchedule()
	cw.selectedScheduleRow = -1
	cw.schedulesTable.UnselectAll()
	cw.schedulesTable.Refresh()

	cw.schedulesContainer.Objects[0] = cw.schedulesContent()
	cw.schedulesContainer.Refresh()
}

// getWeekSchedule lists the active profile's tasks starting from Monday
func (cw *ConfigWindow) getWeekSchedule() []models.Task {
	tasks := cw.sb.tasks.List()
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := mondayFirst(tasks[i].Weekday()), mondayFirst(tasks[j].Weekday())
		if di != dj {
			return di < dj
		}
		return tasks[i].Time < tasks[j].Time
	})
	return tasks
}

func (cw *ConfigWindow) selectedTask() (models.Task, bool) {
	if cw.selectedScheduleRow < 0 || cw.selectedScheduleRow >= len(cw.schedulesData) {
		return models.Task{}, false
	}
	return cw.schedulesData[cw.selectedScheduleRow], true
}

func (cw *ConfigWindow) categoryName(id string) string {
	if id == "" {
		return ""
	}
	if c, ok := cw.sb.tasks.Category(id); ok {
		return c.Name
	}
	return ""
}

func (cw *ConfigWindow) sourceName(id string) string {
	for _, source := range cw.config.ICalSources {
		if source.ID == id {
			return source.Name
		}
	}
	return ""
}

// mondayFirst orders weekdays Monday through Sunday
func mondayFirst(day time.Weekday) int {
	return (int(day) + 6) % 7
}
