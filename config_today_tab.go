package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/notify"
)

var todayHeaders = []string{"Time", "Reminder", "Status"}

func (cw *ConfigWindow) buildTodayTab() fyne.CanvasObject {
	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(cw.todayData), len(todayHeaders)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row >= len(cw.todayData) {
				label.SetText("")
				return
			}
			entry := cw.todayData[id.Row]

			switch id.Col {
			case 0:
				label.SetText(entry.Time)
			case 1:
				label.SetText(entry.Text)
			case 2:
				label.SetText(string(entry.Status))
			}

			label.Importance = widget.MediumImportance
			if id.Col == 2 {
				switch entry.Status {
				case notify.StatusFired, notify.StatusDone:
					label.Importance = widget.SuccessImportance
				case notify.StatusUpcoming:
					label.Importance = widget.WarningImportance
				case notify.StatusMissed:
					label.Importance = widget.LowImportance
				}
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
		obj.(*widget.Label).SetText(todayHeaders[id.Col])
	}
	table.SetColumnWidth(0, 80)
	table.SetColumnWidth(1, 560)
	table.SetColumnWidth(2, 110)

	cw.todayTable = table

	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		cw.refreshTodayData()
	})

	helpText := widget.NewLabel("Everything that rings today. 'Fired' already rang, 'Missed' passed while the app was not running, 'Done' tasks stay silent.")
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance

	cw.todayTitle = widget.NewLabel("")

	headerContent := container.NewVBox(
		cw.todayTitle,
		widget.NewSeparator(),
		helpText,
		container.NewHBox(refreshButton),
	)

	cw.todayContainer = container.NewBorder(headerContent, nil, nil, nil, table)
	cw.refreshTodayData()

	return container.NewPadded(cw.todayContainer)
}

func (cw *ConfigWindow) refreshTodayData() {
	if cw.todayContainer == nil {
		return
	}

	cw.todayData = cw.sb.agenda()
	cw.todayTitle.SetText("Today, " + time.Now().Format("Monday 02/01"))

	if len(cw.todayData) == 0 {
		emptyStateText := widget.NewLabel("Nothing rings today.\n\nAdd tasks for " + time.Now().Weekday().String() + " in the Schedules tab, or set workday times in the Notifications tab.")
		emptyStateText.Wrapping = fyne.TextWrapWord
		emptyStateText.Importance = widget.MediumImportance
		cw.todayContainer.Objects[0] = container.NewPadded(emptyStateText)
	} else {
		cw.todayContainer.Objects[0] = cw.todayTable
	}
	cw.todayTable.Refresh()
	cw.todayContainer.Refresh()
}
