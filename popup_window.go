package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/countdown"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/platform"
	"github.com/borgmon/schedule-bell/pkg/ui/components"
	"github.com/jonboulle/clockwork"
)

// PopupWindow shows the most recently fired notification. Pre-notifications
// carry a mm:ss countdown to the task's due time.
type PopupWindow struct {
	window          fyne.Window
	popup           models.PopupPayload
	holdTimeSeconds int
	onDone          func(taskID string)

	// Called once the window is gone
	OnClosed func(*PopupWindow)

	countdown      *countdown.Countdown
	countdownLabel *canvas.Text
	closed         bool
}

// NewPopupWindow builds the popup. It must be called on the Fyne main goroutine.
func NewPopupWindow(app fyne.App, popup models.PopupPayload, holdTimeSeconds int, onDone func(taskID string)) *PopupWindow {
	pw := &PopupWindow{
		popup:           popup,
		holdTimeSeconds: holdTimeSeconds,
		onDone:          onDone,
	}

	pw.window = app.NewWindow("Reminder")
	pw.buildUI()

	pw.window.SetOnClosed(func() {
		pw.closed = true
		if pw.countdown != nil {
			pw.countdown.Dismiss()
		}
		if pw.OnClosed != nil {
			pw.OnClosed(pw)
		}
	})

	if popup.HasCountdown() {
		pw.countdown = countdown.Start(clockwork.NewRealClock(), *popup.CountdownTarget, func(text string) {
			fyne.Do(func() {
				pw.countdownLabel.Text = text
				pw.countdownLabel.Refresh()
			})
		})
	}

	return pw
}

func (pw *PopupWindow) buildUI() {
	message := widget.NewLabel(pw.popup.Message)
	message.Wrapping = fyne.TextWrapWord
	message.Alignment = fyne.TextAlignCenter
	message.TextStyle.Bold = true

	firedAt := widget.NewLabel(models.FormatClock(time.Now()))
	firedAt.Alignment = fyne.TextAlignCenter
	firedAt.Importance = widget.MediumImportance

	content := container.NewVBox(container.NewPadded(message), firedAt)

	if pw.popup.HasCountdown() {
		pw.countdownLabel = canvas.NewText(countdown.Format(time.Until(*pw.popup.CountdownTarget)), theme.Color(theme.ColorNameForeground))
		pw.countdownLabel.TextSize = 48
		pw.countdownLabel.TextStyle.Monospace = true
		pw.countdownLabel.Alignment = fyne.TextAlignCenter

		dueLabel := widget.NewLabel("Due at " + models.FormatClock(*pw.popup.CountdownTarget))
		dueLabel.Alignment = fyne.TextAlignCenter
		dueLabel.Importance = widget.MediumImportance

		content.Add(widget.NewSeparator())
		content.Add(pw.countdownLabel)
		content.Add(dueLabel)
	}

	content.Add(widget.NewSeparator())

	closeButton := widget.NewButton("Close", pw.Close)
	buttonRow := container.NewHBox(closeButton)

	// Workday milestones have no task to complete
	if taskID, ok := pw.popup.ID.TaskID(); ok && pw.onDone != nil {
		doneButton := components.NewHoldButton(
			fmt.Sprintf("Mark done (Hold %ds)", pw.holdTimeSeconds),
			time.Duration(pw.holdTimeSeconds)*time.Second,
			func() {
				pw.onDone(taskID)
				fyne.Do(pw.Close)
			},
		)
		doneButton.MinimumSize = fyne.NewSize(200, 40)
		buttonRow.Add(doneButton)
	}

	content.Add(container.NewCenter(buttonRow))

	pw.window.SetContent(container.NewPadded(content))
	pw.window.Resize(fyne.NewSize(420, 0))
	pw.window.CenterOnScreen()
}

func (pw *PopupWindow) Show() {
	pw.window.Show()
	if platform.BringToFront() {
		log.Println("Popup raised above other apps")
	}
	pw.window.RequestFocus()
}

// Close dismisses the countdown and closes the window. Safe to call twice.
func (pw *PopupWindow) Close() {
	if pw.closed {
		return
	}
	pw.window.Close()
}
