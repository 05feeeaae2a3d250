package main

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/schedule-bell/pkg/store"
	"github.com/borgmon/schedule-bell/pkg/ui/components"
)

func (cw *ConfigWindow) buildGeneralTab() fyne.CanvasObject {
	cw.autoStartCheck = widget.NewCheck("Auto Start on System Boot", func(checked bool) {
		cw.markChanged()
	})
	cw.autoStartCheck.SetChecked(cw.config.AutoStart)

	// Profile switching takes effect immediately
	cw.profileSelect = widget.NewSelect(cw.sb.profiles.List(), func(name string) {
		if cw.loading || name == "" || name == cw.sb.profiles.Active() {
			return
		}
		if err := cw.sb.profiles.Switch(name); err != nil {
			dialog.ShowError(err, cw.window)
		}
	})
	cw.profileSelect.SetSelected(cw.sb.profiles.Active())

	var profilesContainer *fyne.Container
	cw.profileList, profilesContainer = components.NewListManager(cw.sb.profiles.List(), components.ListManagerConfig{
		OnAdd:     cw.showAddProfileDialog,
		OnRemove:  cw.confirmDeleteProfile,
		MinHeight: 120,
	})

	storageURIEntry := widget.NewEntry()
	storageURIEntry.SetText(cw.sb.app.Storage().RootURI().String())
	storageURIEntry.Disable()

	openStorageButton := widget.NewButton("Open in File Manager", func() {
		openInFileManager(cw.sb.app.Storage().RootURI().Path())
	})

	ringtoneDirEntry := widget.NewEntry()
	ringtoneDirEntry.SetText(cw.sb.ringtones.Dir())
	ringtoneDirEntry.Disable()

	openRingtonesButton := widget.NewButton("Open Ringtone Folder", func() {
		openInFileManager(cw.sb.ringtones.Dir())
	})

	autoStartLabel := widget.NewLabel("Auto Start:")
	autoStartHelp := widget.NewLabel("Launch Schedule Bell automatically when your system starts")
	autoStartHelp.Importance = widget.MediumImportance

	activeProfileLabel := widget.NewLabel("Active Profile:")
	activeProfileHelp := widget.NewLabel("Each profile has its own tasks and notification settings")
	activeProfileHelp.Wrapping = fyne.TextWrapWord
	activeProfileHelp.Importance = widget.MediumImportance

	profilesLabel := widget.NewLabel("Profiles:")
	profilesHelp := widget.NewLabel(fmt.Sprintf("The '%s' profile cannot be deleted", store.DefaultProfile))
	profilesHelp.Wrapping = fyne.TextWrapWord
	profilesHelp.Importance = widget.MediumImportance

	storageLabel := widget.NewLabel("Storage Location:")
	storageHelp := widget.NewLabel("Application data and settings are stored here")
	storageHelp.Wrapping = fyne.TextWrapWord
	storageHelp.Importance = widget.MediumImportance

	ringtoneDirLabel := widget.NewLabel("Ringtones:")
	ringtoneDirHelp := widget.NewLabel("Drop .wav files here to add ringtones")
	ringtoneDirHelp.Wrapping = fyne.TextWrapWord
	ringtoneDirHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(autoStartLabel, autoStartHelp),
		cw.autoStartCheck,

		container.NewVBox(activeProfileLabel, activeProfileHelp),
		container.NewVBox(cw.profileSelect),

		container.NewVBox(profilesLabel, profilesHelp),
		profilesContainer,

		container.NewVBox(storageLabel, storageHelp),
		container.NewBorder(nil, container.NewPadded(openStorageButton), nil, nil, storageURIEntry),

		container.NewVBox(ringtoneDirLabel, ringtoneDirHelp),
		container.NewBorder(nil, container.NewPadded(openRingtonesButton), nil, nil, ringtoneDirEntry),
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (cw *ConfigWindow) showAddProfileDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g., Work")
	nameEntry.Validator = func(s string) error {
		if s == "" {
			return errors.New("name is required")
		}
		return nil
	}

	dialog.ShowForm("Add Profile", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(confirmed bool) {
			if !confirmed {
				return
			}
			// The new profile becomes active, which reloads this window
			if err := cw.sb.profiles.Add(nameEntry.Text); err != nil {
				dialog.ShowError(err, cw.window)
			}
		}, cw.window)
}

// confirmDeleteProfile asks before deleting and always keeps the list item;
// the list is rebuilt from the store afterwards
func (cw *ConfigWindow) confirmDeleteProfile(idx int) bool {
	profiles := cw.sb.profiles.List()
	if idx < 0 || idx >= len(profiles) {
		return false
	}
	name := profiles[idx]
	if name == store.DefaultProfile {
		dialog.ShowInformation("Delete Profile", "The default profile cannot be deleted.", cw.window)
		return false
	}

	dialog.ShowConfirm("Delete Profile",
		fmt.Sprintf("Delete '%s' with all of its tasks and settings?", name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := cw.sb.profiles.Delete(name); err != nil {
				dialog.ShowError(err, cw.window)
				return
			}
			cw.refreshProfiles()
		}, cw.window)
	return false
}

func (cw *ConfigWindow) refreshProfiles() {
	if cw.profileSelect == nil {
		return
	}
	profiles := cw.sb.profiles.List()
	cw.loading = true
	cw.profileSelect.SetOptions(profiles)
	cw.profileSelect.SetSelected(cw.sb.profiles.Active())
	cw.loading = false
	cw.profileList.SetData(profiles)
}

func openInFileManager(path string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		log.Printf("Unsupported OS: %s", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Error opening file manager: %v", err)
	}
}
