package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/schedule-bell/pkg/notify"
)

const trayAgendaLimit = 8

func (sb *ScheduleBell) setupSystemTray() {
	if desk, ok := sb.app.(desktop.App); ok {
		desk.SetSystemTrayIcon(theme.HistoryIcon())
	}
	sb.updateSystemTrayMenu()
}

func (sb *ScheduleBell) updateSystemTrayMenu() {
	desk, ok := sb.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	entries := sb.agenda()
	headerItem := fyne.NewMenuItem(fmt.Sprintf("Today (%s):", sb.profiles.Active()), nil)
	headerItem.Disabled = true
	menuItems = append(menuItems, headerItem)

	if len(entries) == 0 {
		emptyItem := fyne.NewMenuItem("  Nothing scheduled", nil)
		emptyItem.Disabled = true
		menuItems = append(menuItems, emptyItem)
	}
	for _, entry := range trayEntries(entries, trayAgendaLimit) {
		menuItems = append(menuItems, sb.agendaMenuItem(entry))
	}

	menuItems = append(menuItems,
		fyne.NewMenuItemSeparator(),
		sb.profilesMenuItem(),
		fyne.NewMenuItem("Settings", func() {
			sb.showConfigWindow()
		}),
		fyne.NewMenuItem("Sync Calendars", func() {
			go func() {
				if err := sb.syncCalendars(); err != nil {
					log.Printf("Calendar sync incomplete: %v", err)
				}
			}()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			sb.quit()
		}),
	)

	menu := fyne.NewMenu("Schedule Bell", menuItems...)
	desk.SetSystemTrayMenu(menu)
}

// agendaMenuItem renders one entry. Tasks toggle their completion when clicked.
func (sb *ScheduleBell) agendaMenuItem(entry notify.AgendaEntry) *fyne.MenuItem {
	label := fmt.Sprintf("  %s - %s", entry.Time, truncateString(entry.Text, 35))
	if entry.Status == notify.StatusFired || entry.Status == notify.StatusMissed {
		label += " (" + string(entry.Status) + ")"
	}

	item := fyne.NewMenuItem(label, nil)
	item.Checked = entry.Status == notify.StatusDone
	if !entry.IsTask() {
		item.Disabled = true
		return item
	}

	taskID := entry.TaskID
	item.Action = func() {
		if err := sb.tasks.ToggleComplete(taskID); err != nil {
			log.Printf("Failed to toggle task %s: %v", taskID, err)
		}
	}
	return item
}

func (sb *ScheduleBell) profilesMenuItem() *fyne.MenuItem {
	active := sb.profiles.Active()

	items := []*fyne.MenuItem{}
	for _, name := range sb.profiles.List() {
		profile := name
		item := fyne.NewMenuItem(profile, func() {
			if err := sb.profiles.Switch(profile); err != nil {
				log.Printf("Failed to switch profile: %v", err)
			}
		})
		item.Checked = profile == active
		items = append(items, item)
	}

	parent := fyne.NewMenuItem("Profile", nil)
	parent.ChildMenu = fyne.NewMenu("", items...)
	return parent
}

// trayEntries keeps the menu short. The window starts at the first upcoming
// entry and reaches back into past entries when fewer than limit remain.
func trayEntries(entries []notify.AgendaEntry, limit int) []notify.AgendaEntry {
	if len(entries) <= limit {
		return entries
	}

	firstUpcoming := len(entries)
	for i, e := range entries {
		if e.Status == notify.StatusUpcoming {
			firstUpcoming = i
			break
		}
	}

	start := len(entries) - limit
	if firstUpcoming < start {
		start = firstUpcoming
	}
	end := start + limit
	return entries[start:end]
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
