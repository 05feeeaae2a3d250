package main

import (
	"log"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/notify"
	"github.com/borgmon/schedule-bell/pkg/speech"
	"github.com/borgmon/schedule-bell/pkg/ui/components"
)

const previewText = "Đây là thông báo thử"

type ConfigWindow struct {
	window       fyne.Window
	sb           *ScheduleBell
	config       *models.Config
	notification models.NotificationSettings
	onSave       func(*models.Config, models.NotificationSettings) error

	// General tab
	autoStartCheck *widget.Check
	profileSelect  *widget.Select
	profileList    *components.ListManager

	// Calendar tab
	icalSources          *components.ListManager
	icalSourcesData      []models.ICalSource
	updateIntervalSelect *widget.Select
	syncNowButton        *widget.Button

	// Notification tab
	ringtoneSelect         *widget.Select
	ringtoneDurationSelect *widget.Select
	voiceSelect            *widget.Select
	voices                 []speech.Voice
	volumeSlider           *widget.Slider
	volumeLabel            *widget.Label
	prefixEntry            *widget.Entry
	preEnabledCheck        *widget.Check
	preTimeSelect          *widget.Select
	prePrefixEntry         *widget.Entry
	workdayCheck           *widget.Check
	userNameEntry          *widget.Entry
	workStartEntry         *widget.Entry
	lunchStartEntry        *widget.Entry
	lunchEndEntry          *widget.Entry
	workEndEntry           *widget.Entry
	holdTimeSelect         *widget.Select

	// Schedules tab
	schedulesTable      *widget.Table
	schedulesData       []models.Task
	schedulesContainer  *fyne.Container
	selectedScheduleRow int

	// Today tab
	todayTable     *widget.Table
	todayData      []notify.AgendaEntry
	todayTitle     *widget.Label
	todayContainer *fyne.Container

	// UI state
	loading           bool
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewConfigWindow(sb *ScheduleBell, onSave func(*models.Config, models.NotificationSettings) error) *ConfigWindow {
	config := sb.currentConfig()
	config.ICalSources = slices.Clone(config.ICalSources)

	cw := &ConfigWindow{
		sb:           sb,
		config:       &config,
		notification: sb.settings.Notification(),
		onSave:       onSave,
	}

	cw.window = sb.app.NewWindow("Schedule Bell - Settings")
	cw.buildUI()

	return cw
}

func (cw *ConfigWindow) buildUI() {
	// Widgets fire change callbacks while their initial values are set
	cw.loading = true
	tabs := container.NewAppTabs(
		container.NewTabItem("General", cw.buildGeneralTab()),
		container.NewTabItem("Notifications", cw.buildNotifyTab()),
		container.NewTabItem("Schedules", cw.buildSchedulesTab()),
		container.NewTabItem("Today", cw.buildTodayTab()),
		container.NewTabItem("Calendar", cw.buildCalendarTab()),
	)
	tabs.OnSelected = func(tab *container.TabItem) {
		if tab.Text == "Today" {
			cw.refreshTodayData()
		}
	}
	cw.loading = false

	cw.saveStatusLabel = widget.NewLabel("")
	cw.saveStatusLabel.Importance = widget.SuccessImportance

	cw.saveButton = widget.NewButton("Save", cw.save)
	cw.saveButton.Importance = widget.HighImportance
	cw.saveButton.Disable() // Initially disabled until changes are made

	previewButton := widget.NewButton("Preview", func() {
		cw.sb.player.Preview(previewText, cw.getNotificationFromUI())
	})

	closeButton := widget.NewButton("Close", func() {
		cw.handleClose()
	})

	leftButtons := container.NewHBox(
		cw.saveButton,
		cw.saveStatusLabel,
	)
	rightButtons := container.NewHBox(
		previewButton,
		closeButton,
	)

	buttonRow := container.NewBorder(nil, nil, leftButtons, rightButtons, container.NewHBox())

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		tabs,
	)

	cw.window.SetContent(content)
	cw.window.Resize(fyne.NewSize(900, 700))
	cw.window.CenterOnScreen()

	cw.setupKeyboardShortcuts()

	// Add close interceptor for unsaved changes
	cw.window.SetCloseIntercept(func() {
		cw.handleClose()
	})
}

func (cw *ConfigWindow) save() {
	cw.saveButton.Disable()
	cw.setStatus("Saving...", widget.MediumImportance)

	newConfig := cw.getConfigFromUI()
	notification := cw.getNotificationFromUI()
	go func() {
		if err := setupAutostart(newConfig.AutoStart); err != nil {
			log.Printf("Error setting autostart: %v", err)
			fyne.Do(func() {
				cw.setStatus("Error: Failed to set autostart", widget.DangerImportance)
				cw.updateSaveButtonState()
			})
			return
		}

		if cw.onSave != nil {
			if err := cw.onSave(newConfig, notification); err != nil {
				log.Printf("Error saving settings: %v", err)
				fyne.Do(func() {
					cw.setStatus("Error: "+err.Error(), widget.DangerImportance)
					cw.updateSaveButtonState()
				})
				return
			}
		}

		fyne.Do(func() {
			cw.config = newConfig
			cw.notification = notification
			cw.hasUnsavedChanges = false
			cw.flashStatus("Settings saved successfully")
			cw.updateSaveButtonState()
		})
	}()
}

func (cw *ConfigWindow) setStatus(text string, importance widget.Importance) {
	cw.saveStatusLabel.SetText(text)
	cw.saveStatusLabel.Importance = importance
	cw.saveStatusLabel.Refresh()
}

// flashStatus shows a success message and clears it after 3 seconds
func (cw *ConfigWindow) flashStatus(text string) {
	cw.setStatus(text, widget.SuccessImportance)
	time.AfterFunc(3*time.Second, func() {
		fyne.Do(func() {
			if cw.saveStatusLabel.Text == text {
				cw.saveStatusLabel.SetText("")
				cw.saveStatusLabel.Refresh()
			}
		})
	})
}

func (cw *ConfigWindow) getConfigFromUI() *models.Config {
	return &models.Config{
		AutoStart:       cw.autoStartCheck.Checked,
		ICalSources:     slices.Clone(cw.icalSourcesData),
		UpdateInterval:  parseCount(cw.updateIntervalSelect.Selected, "min", cw.config.UpdateInterval),
		HoldTimeSeconds: parseCount(cw.holdTimeSelect.Selected, "sec", cw.config.HoldTimeSeconds),
	}
}

// reloadProfile shows the settings and tasks of the newly active profile.
// Unsaved notification edits of the previous profile are dropped.
func (cw *ConfigWindow) reloadProfile() {
	cw.notification = cw.sb.settings.Notification()
	cw.loading = true
	cw.loadNotificationFields(cw.notification)
	cw.loading = false
	cw.hasUnsavedChanges = cw.hasActualChanges()
	cw.updateSaveButtonState()

	cw.refreshProfiles()
	cw.refreshSchedulesData()
	cw.refreshTodayData()
}

func (cw *ConfigWindow) Show() {
	cw.window.Show()
}

// markChanged marks the config as having unsaved changes
func (cw *ConfigWindow) markChanged() {
	if cw.loading {
		return
	}
	cw.hasUnsavedChanges = true
	cw.updateSaveButtonState()
}

// updateSaveButtonState enables or disables the save button based on changes
func (cw *ConfigWindow) updateSaveButtonState() {
	if cw.saveButton != nil {
		if cw.hasUnsavedChanges {
			cw.saveButton.Enable()
		} else {
			cw.saveButton.Disable()
		}
	}
}

// handleClose handles window close with unsaved changes check
func (cw *ConfigWindow) handleClose() {
	if cw.hasActualChanges() {
		dialog.ShowConfirm("Unsaved Changes",
			"You have unsaved changes. Are you sure you want to close?",
			func(confirmed bool) {
				if confirmed {
					cw.window.Close()
				}
			}, cw.window)
	} else {
		cw.window.Close()
	}
}

// hasActualChanges checks if the current UI state differs from the saved settings
func (cw *ConfigWindow) hasActualChanges() bool {
	current := cw.getConfigFromUI()
	if current.AutoStart != cw.config.AutoStart ||
		current.UpdateInterval != cw.config.UpdateInterval ||
		current.HoldTimeSeconds != cw.config.HoldTimeSeconds {
		return true
	}
	if !slices.Equal(current.ICalSources, cw.config.ICalSources) {
		return true
	}
	return cw.getNotificationFromUI() != cw.notification
}

func (cw *ConfigWindow) setupKeyboardShortcuts() {
	cw.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			cw.handleClose()
		}
	})

	// Cmd+S on macOS, Ctrl+S elsewhere
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		cw.window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) {
			if cw.hasUnsavedChanges {
				cw.save()
			}
		})
	}
}
