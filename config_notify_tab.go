package main

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/speech"
)

const defaultVoiceOption = "Default Vietnamese voice"

func (cw *ConfigWindow) buildNotifyTab() fyne.CanvasObject {
	changed := func(string) { cw.markChanged() }
	toggled := func(bool) { cw.markChanged() }

	cw.ringtoneSelect = widget.NewSelect(cw.sb.ringtones.Names(), changed)
	cw.ringtoneDurationSelect = widget.NewSelect(countOptions(1, 30, "sec"), changed)

	cw.voices = cw.sb.synth.Voices()
	cw.voiceSelect = widget.NewSelect(voiceOptions(cw.voices), changed)
	if !cw.sb.synth.Available() {
		cw.voiceSelect.Disable()
	}

	cw.volumeLabel = widget.NewLabel("")
	cw.volumeSlider = widget.NewSlider(0, 1)
	cw.volumeSlider.Step = 0.05
	cw.volumeSlider.OnChanged = func(v float64) {
		cw.volumeLabel.SetText(fmt.Sprintf("%d%%", int(v*100+0.5)))
		cw.markChanged()
	}

	cw.prefixEntry = widget.NewEntry()
	cw.prefixEntry.OnChanged = changed

	cw.preEnabledCheck = widget.NewCheck("Announce tasks ahead of time", toggled)
	cw.preTimeSelect = widget.NewSelect(countOptions(1, 60, "min"), changed)
	cw.prePrefixEntry = widget.NewEntry()
	cw.prePrefixEntry.OnChanged = changed

	cw.workdayCheck = widget.NewCheck("Announce workday milestones (Mon-Fri)", toggled)
	cw.userNameEntry = widget.NewEntry()
	cw.userNameEntry.SetPlaceHolder(models.FallbackUserName)
	cw.userNameEntry.OnChanged = changed

	clockEntry := func() *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder("HH:MM")
		e.Validator = optionalClock
		e.OnChanged = changed
		return e
	}
	cw.workStartEntry = clockEntry()
	cw.lunchStartEntry = clockEntry()
	cw.lunchEndEntry = clockEntry()
	cw.workEndEntry = clockEntry()

	cw.holdTimeSelect = widget.NewSelect(countOptions(1, 10, "sec"), changed)
	cw.holdTimeSelect.SetSelected(countOption(clampInt(cw.config.HoldTimeSeconds, 1, 10), "sec"))

	cw.loadNotificationFields(cw.notification)

	soundForm := container.New(layout.NewFormLayout(),
		helpLabel("Ringtone:", "Played before the reminder is read aloud"),
		container.NewVBox(cw.ringtoneSelect),

		helpLabel("Ringtone Length:", "The ringtone is cut off after this long"),
		container.NewVBox(cw.ringtoneDurationSelect),

		helpLabel("Voice:", speechHelp(cw.sb.synth)),
		container.NewVBox(cw.voiceSelect),

		helpLabel("Volume:", "Applies to both ringtone and voice"),
		container.NewBorder(nil, nil, nil, cw.volumeLabel, cw.volumeSlider),
	)

	messageForm := container.New(layout.NewFormLayout(),
		helpLabel("Reminder Prefix:", "Spoken before the task text when it is due"),
		cw.prefixEntry,

		helpLabel("Early Reminder:", "Also remind a few minutes before each task, with a countdown"),
		container.NewVBox(cw.preEnabledCheck, cw.preTimeSelect),

		helpLabel("Early Prefix:", "Spoken before the task text for early reminders"),
		cw.prePrefixEntry,
	)

	workdayForm := container.New(layout.NewFormLayout(),
		helpLabel("Workday:", "Greetings at the start and end of work and lunch"),
		cw.workdayCheck,

		helpLabel("Your Name:", "Used in the workday greetings"),
		cw.userNameEntry,

		widget.NewLabel("Work Starts:"), cw.workStartEntry,
		widget.NewLabel("Lunch Starts:"), cw.lunchStartEntry,
		widget.NewLabel("Lunch Ends:"), cw.lunchEndEntry,
		widget.NewLabel("Work Ends:"), cw.workEndEntry,
	)

	popupForm := container.New(layout.NewFormLayout(),
		helpLabel("Button Hold Time:", "How long to hold 'Mark done' on a reminder"),
		container.NewVBox(cw.holdTimeSelect),
	)

	content := container.NewVBox(
		widget.NewLabel("Sound"),
		widget.NewSeparator(),
		soundForm,
		widget.NewLabel("Messages"),
		widget.NewSeparator(),
		messageForm,
		widget.NewLabel("Workday Milestones"),
		widget.NewSeparator(),
		workdayForm,
		widget.NewLabel("Popup"),
		widget.NewSeparator(),
		popupForm,
	)

	return container.NewPadded(container.NewVScroll(content))
}

// loadNotificationFields puts settings into the tab's widgets
func (cw *ConfigWindow) loadNotificationFields(s models.NotificationSettings) {
	ringtone := s.Ringtone
	if r, err := cw.sb.ringtones.Resolve(s.Ringtone); err == nil {
		ringtone = r.Name
	}
	cw.ringtoneSelect.SetSelected(ringtone)
	cw.ringtoneDurationSelect.SetSelected(countOption(clampInt(s.RingtoneDuration, 1, 30), "sec"))
	cw.voiceSelect.SetSelected(voiceOption(cw.voices, s.VoiceURI))
	cw.volumeSlider.SetValue(s.ClampVolume())
	cw.volumeLabel.SetText(fmt.Sprintf("%d%%", int(s.ClampVolume()*100+0.5)))

	cw.prefixEntry.SetText(s.NotificationPrefix)
	cw.preEnabledCheck.SetChecked(s.PreNotificationEnabled)
	cw.preTimeSelect.SetSelected(countOption(clampInt(s.PreNotificationTime, 1, 60), "min"))
	cw.prePrefixEntry.SetText(s.PreNotificationPrefix)

	cw.workdayCheck.SetChecked(s.WorkdayNotificationsEnabled)
	cw.userNameEntry.SetText(s.UserName)
	cw.workStartEntry.SetText(s.WorkStartTime)
	cw.lunchStartEntry.SetText(s.LunchStartTime)
	cw.lunchEndEntry.SetText(s.LunchEndTime)
	cw.workEndEntry.SetText(s.WorkEndTime)
}

// getNotificationFromUI reads the tab back. Invalid milestone times keep
// their saved value.
func (cw *ConfigWindow) getNotificationFromUI() models.NotificationSettings {
	saved := cw.notification
	clockOr := func(e *widget.Entry, fallback string) string {
		if optionalClock(e.Text) != nil {
			return fallback
		}
		return e.Text
	}

	ringtone := cw.ringtoneSelect.Selected
	if r, err := cw.sb.ringtones.Resolve(saved.Ringtone); err == nil && r.Name == ringtone {
		ringtone = saved.Ringtone
	}

	return models.NotificationSettings{
		Ringtone:         ringtone,
		RingtoneDuration: parseCount(cw.ringtoneDurationSelect.Selected, "sec", saved.RingtoneDuration),
		VoiceURI:         voiceURI(cw.voices, cw.voiceSelect.Selected, saved.VoiceURI),
		Volume:           cw.volumeSlider.Value,

		NotificationPrefix: cw.prefixEntry.Text,

		PreNotificationEnabled: cw.preEnabledCheck.Checked,
		PreNotificationTime:    parseCount(cw.preTimeSelect.Selected, "min", saved.PreNotificationTime),
		PreNotificationPrefix:  cw.prePrefixEntry.Text,

		WorkdayNotificationsEnabled: cw.workdayCheck.Checked,
		UserName:                    cw.userNameEntry.Text,
		WorkStartTime:               clockOr(cw.workStartEntry, saved.WorkStartTime),
		LunchStartTime:              clockOr(cw.lunchStartEntry, saved.LunchStartTime),
		LunchEndTime:                clockOr(cw.lunchEndEntry, saved.LunchEndTime),
		WorkEndTime:                 clockOr(cw.workEndEntry, saved.WorkEndTime),
	}
}

// refreshRingtones picks up files added to or removed from the ringtone folder
func (cw *ConfigWindow) refreshRingtones() {
	selected := cw.ringtoneSelect.Selected
	cw.loading = true
	cw.ringtoneSelect.SetOptions(cw.sb.ringtones.Names())
	if r, err := cw.sb.ringtones.Resolve(selected); err == nil {
		cw.ringtoneSelect.SetSelected(r.Name)
	}
	cw.loading = false
}

func helpLabel(title, help string) fyne.CanvasObject {
	helpText := widget.NewLabel(help)
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance
	return container.NewVBox(widget.NewLabel(title), helpText)
}

func speechHelp(synth *speech.CommandSynthesizer) string {
	if !synth.Available() {
		return "No speech engine found, reminders will only ring"
	}
	return "Reads reminders aloud using " + synth.Engine()
}

func optionalClock(s string) error {
	if s == "" {
		return nil
	}
	_, _, err := models.ParseClock(s)
	return err
}

func voiceOptions(voices []speech.Voice) []string {
	options := []string{defaultVoiceOption}
	for _, v := range voices {
		options = append(options, voiceLabel(v))
	}
	return options
}

func voiceLabel(v speech.Voice) string {
	return fmt.Sprintf("%s (%s)", v.Name, v.Lang)
}

func voiceOption(voices []speech.Voice, uri string) string {
	for _, v := range voices {
		if v.URI == uri {
			return voiceLabel(v)
		}
	}
	return defaultVoiceOption
}

func voiceURI(voices []speech.Voice, option, fallback string) string {
	if option == defaultVoiceOption {
		// Keep a saved voice that is not installed here
		if voiceOption(voices, fallback) == defaultVoiceOption {
			return fallback
		}
		return models.DefaultVoiceURI
	}
	for _, v := range voices {
		if voiceLabel(v) == option {
			return v.URI
		}
	}
	return fallback
}

func countOptions(from, to int, unit string) []string {
	options := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		options = append(options, countOption(i, unit))
	}
	return options
}

func countOption(n int, unit string) string {
	return strconv.Itoa(n) + " " + unit
}

// parseCount turns "15 min" into 15
func parseCount(selected, unit string, fallback int) int {
	var val int
	if _, err := fmt.Sscanf(selected, "%d "+unit, &val); err != nil || val <= 0 {
		return fallback
	}
	return val
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
