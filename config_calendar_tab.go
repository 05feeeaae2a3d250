package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/ui/components"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var urlValidator = validator.New()

func (cw *ConfigWindow) buildCalendarTab() fyne.CanvasObject {
	cw.icalSourcesData = append([]models.ICalSource{}, cw.config.ICalSources...)

	names := make([]string, len(cw.icalSourcesData))
	for i, source := range cw.icalSourcesData {
		names[i] = source.Name
	}

	var sourcesContainer *fyne.Container
	cw.icalSources, sourcesContainer = components.NewListManager(names, components.ListManagerConfig{
		RenderItem: func(i int) string {
			source := cw.icalSourcesData[i]
			return source.Name + "  " + truncateString(source.URL, 60)
		},
		OnAdd:     cw.showAddSourceDialog,
		OnRemove:  cw.confirmRemoveSource,
		MinHeight: 200,
	})

	intervalOptions := []string{"15 min", "30 min", "45 min", "60 min", "75 min", "90 min", "105 min", "120 min"}
	cw.updateIntervalSelect = widget.NewSelect(intervalOptions, func(value string) {
		cw.markChanged()
	})
	cw.updateIntervalSelect.SetSelected(strconv.Itoa(cw.config.UpdateInterval) + " min")

	syncStatusLabel := widget.NewLabel("")
	syncStatusLabel.Importance = widget.MediumImportance

	cw.syncNowButton = widget.NewButtonWithIcon("Sync Now", theme.ViewRefreshIcon(), func() {
		if cw.hasActualChanges() {
			dialog.ShowInformation("Unsaved Changes", "Save your calendar sources before syncing.", cw.window)
			return
		}

		cw.syncNowButton.Disable()
		syncStatusLabel.SetText("Syncing calendars...")
		syncStatusLabel.Importance = widget.MediumImportance
		syncStatusLabel.Refresh()

		go func() {
			err := cw.sb.syncCalendars()
			fyne.Do(func() {
				if err != nil {
					syncStatusLabel.SetText("Sync incomplete: " + err.Error())
					syncStatusLabel.Importance = widget.DangerImportance
				} else {
					syncStatusLabel.SetText("Sync completed successfully")
					syncStatusLabel.Importance = widget.SuccessImportance
				}
				syncStatusLabel.Refresh()
				cw.syncNowButton.Enable()
			})
		}()
	})

	icalSourcesLabel := widget.NewLabel("iCal Sources:")
	icalSourcesHelp := widget.NewLabel("Weekly recurring events become tasks of the active profile. One-off and all-day events are skipped.")
	icalSourcesHelp.Wrapping = fyne.TextWrapWord
	icalSourcesHelp.Importance = widget.MediumImportance

	updateIntervalLabel := widget.NewLabel("Update Interval:")
	updateIntervalHelp := widget.NewLabel("How often to sync calendar events from all iCal sources")
	updateIntervalHelp.Importance = widget.MediumImportance

	syncLabel := widget.NewLabel("Sync Calendars:")
	syncHelp := widget.NewLabel("Manually sync all calendar sources to fetch the latest events")
	syncHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(icalSourcesLabel, icalSourcesHelp),
		sourcesContainer,

		container.NewVBox(updateIntervalLabel, updateIntervalHelp),
		container.NewVBox(cw.updateIntervalSelect),

		container.NewVBox(syncLabel, syncHelp),
		container.NewVBox(container.NewHBox(cw.syncNowButton, syncStatusLabel)),
	)

	content := container.NewVBox(
		widget.NewLabel("Calendar Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (cw *ConfigWindow) showAddSourceDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g., Work Calendar")
	nameEntry.Validator = func(s string) error {
		if s == "" {
			return errors.New("name is required")
		}
		return nil
	}

	urlEntry := widget.NewMultiLineEntry()
	urlEntry.SetPlaceHolder("https://calendar.example.com/ical/...")
	urlEntry.Wrapping = fyne.TextWrapBreak
	urlEntry.SetMinRowsVisible(5)
	urlEntry.Validator = func(s string) error {
		return validateSourceURL(s, cw.icalSourcesData)
	}

	formItems := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("URL", urlEntry),
	}

	addDialog := dialog.NewForm("Add iCal Source", "Add", "Cancel", formItems, func(confirmed bool) {
		if !confirmed {
			return
		}

		source := models.ICalSource{
			ID:   uuid.New().String(),
			Name: nameEntry.Text,
			URL:  strings.TrimSpace(urlEntry.Text),
		}
		cw.icalSourcesData = append(cw.icalSourcesData, source)
		cw.icalSources.AddItem(source.Name)
		cw.markChanged()
	}, cw.window)

	addDialog.Resize(fyne.NewSize(600, 300))
	addDialog.Show()
}

func (cw *ConfigWindow) confirmRemoveSource(idx int) bool {
	if idx < 0 || idx >= len(cw.icalSourcesData) {
		return false
	}
	sourceName := cw.icalSourcesData[idx].Name

	dialog.ShowConfirm("Remove Calendar",
		fmt.Sprintf("Are you sure you want to remove '%s'?", sourceName),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			cw.icalSourcesData = append(cw.icalSourcesData[:idx], cw.icalSourcesData[idx+1:]...)
			cw.icalSources.RemoveAt(idx)
			cw.markChanged()
		}, cw.window)
	return false
}

// validateSourceURL accepts http, https and webcal URLs not already in sources
func validateSourceURL(s string, sources []models.ICalSource) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("URL is required")
	}
	if err := urlValidator.Var(s, "url"); err != nil {
		return errors.New("please enter a valid URL")
	}

	scheme, _, _ := strings.Cut(s, "://")
	switch strings.ToLower(scheme) {
	case "http", "https", "webcal":
	default:
		return errors.New("URL must start with http://, https:// or webcal://")
	}

	for _, existing := range sources {
		if existing.URL == s {
			return errors.New("this calendar URL has already been added")
		}
	}
	return nil
}
