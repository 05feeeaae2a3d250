package main

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/schedule-bell/pkg/audio"
	"github.com/borgmon/schedule-bell/pkg/calendar"
	"github.com/borgmon/schedule-bell/pkg/config"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/notify"
	"github.com/borgmon/schedule-bell/pkg/platform"
	"github.com/borgmon/schedule-bell/pkg/playback"
	"github.com/borgmon/schedule-bell/pkg/scheduler"
	"github.com/borgmon/schedule-bell/pkg/speech"
	"github.com/borgmon/schedule-bell/pkg/store"
	"github.com/borgmon/schedule-bell/pkg/telegram"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

const appID = "com.borgmon.schedule-bell"

const syncTimeout = 2 * time.Minute

type ScheduleBell struct {
	app    fyne.App
	env    *config.Env
	config *models.Config

	profiles  *store.ProfileStore
	tasks     *store.TaskStore
	settings  *store.SettingsStore
	ringtones *audio.Library
	synth     *speech.CommandSynthesizer
	player    *playback.Orchestrator
	engine    *scheduler.Engine
	fetcher   *calendar.Fetcher

	ctx    context.Context
	cancel context.CancelFunc

	configMu     sync.RWMutex
	syncMu       sync.Mutex
	syncCancel   context.CancelFunc
	trayTicker   *time.Ticker
	popup        *PopupWindow
	configWindow *ConfigWindow
}

func main() {
	sb := &ScheduleBell{
		app: app.NewWithID(appID),
	}

	if err := sb.initialize(); err != nil {
		log.Fatal(err)
	}

	sb.run()
}

func (sb *ScheduleBell) initialize() error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	sb.env = env

	prefs := sb.app.Preferences()
	sb.profiles = store.NewProfileStore(prefs)
	sb.tasks = store.NewTaskStore(prefs, sb.profiles)
	sb.settings = store.NewSettingsStore(prefs, sb.profiles)
	sb.config = sb.settings.LoadConfig()

	// Sync autostart state with config on startup
	if err := setupAutostart(sb.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}
	sb.settings.SaveConfig(sb.config)

	sb.ringtones = audio.NewLibrary(afero.NewOsFs(), env.RingtoneDir)
	if err := sb.ringtones.Reload(); err != nil {
		log.Printf("Warning: failed to load ringtones from %s: %v", env.RingtoneDir, err)
	}
	sb.synth = speech.NewCommandSynthesizer(env.SpeechEngine)
	sb.player = playback.NewOrchestrator(clockwork.NewRealClock(), sb.ringtones, audio.NewOutput(), sb.synth)

	sb.engine = scheduler.New(clockwork.NewRealClock(), sb.tasks, sb.settings, sb.player, sb)
	if env.TelegramEnabled() {
		notifier, err := telegram.New(env.TelegramToken, env.TelegramChatID)
		if err != nil {
			log.Printf("Warning: telegram forwarding disabled: %v", err)
		} else {
			sb.engine.AddForwarder(notifier)
			log.Println("Forwarding notifications to telegram")
		}
	}

	sb.fetcher = calendar.NewFetcher(nil, clockwork.NewRealClock())

	sb.tasks.OnChange(func() {
		fyne.Do(func() {
			sb.updateSystemTrayMenu()
			if sb.configWindow != nil {
				sb.configWindow.refreshSchedulesData()
				sb.configWindow.refreshTodayData()
			}
		})
	})
	sb.profiles.OnSwitch(func(profile string) {
		log.Printf("Switched to profile %q", profile)
		fyne.Do(func() {
			if sb.configWindow != nil {
				sb.configWindow.reloadProfile()
			}
		})
	})
	sb.ringtones.OnChange(func() {
		fyne.Do(func() {
			if sb.configWindow != nil {
				sb.configWindow.refreshRingtones()
			}
		})
	})

	sb.ctx, sb.cancel = context.WithCancel(context.Background())

	sb.setupSystemTray()
	sb.startBackgroundSync()
	sb.startScheduler()

	if len(sb.tasks.List()) == 0 {
		sb.showConfigWindow()
	}

	return nil
}

func (sb *ScheduleBell) run() {
	sb.app.Lifecycle().SetOnStarted(func() {
		platform.HideDockIcon()
	})
	sb.app.Run()
}

func (sb *ScheduleBell) startScheduler() {
	go sb.engine.Start(sb.ctx)

	go func() {
		if err := sb.ringtones.Watch(sb.ctx); err != nil {
			log.Printf("Ringtone folder is not watched: %v", err)
		}
	}()

	// Statuses in the tray menu move with the clock
	sb.trayTicker = time.NewTicker(time.Minute)
	go func() {
		for {
			select {
			case <-sb.ctx.Done():
				return
			case <-sb.trayTicker.C:
				fyne.Do(sb.updateSystemTrayMenu)
			}
		}
	}()
}

// ShowPopup replaces the popup on screen with the latest notification
func (sb *ScheduleBell) ShowPopup(popup models.PopupPayload) {
	fyne.Do(func() {
		if sb.popup != nil {
			sb.popup.Close()
		}
		sb.popup = NewPopupWindow(sb.app, popup, sb.currentConfig().HoldTimeSeconds, sb.markDone)
		sb.popup.OnClosed = func(closed *PopupWindow) {
			if sb.popup == closed {
				sb.popup = nil
			}
		}
		sb.popup.Show()
		sb.updateSystemTrayMenu()
	})
}

func (sb *ScheduleBell) markDone(taskID string) {
	if err := sb.tasks.SetComplete(taskID, true); err != nil {
		log.Printf("Failed to mark task %s done: %v", taskID, err)
		return
	}
	log.Printf("Task %s marked done", taskID)
}

func (sb *ScheduleBell) agenda() []notify.AgendaEntry {
	return notify.Agenda(time.Now(), sb.tasks.List(), sb.settings.Notification(), sb.engine.Fired())
}

func (sb *ScheduleBell) showConfigWindow() {
	// If config window already exists and is showing, just bring it to front
	if sb.configWindow != nil && sb.configWindow.window != nil {
		sb.configWindow.window.RequestFocus()
		sb.configWindow.window.Show()
		return
	}

	sb.configWindow = NewConfigWindow(sb, func(newConfig *models.Config, notification models.NotificationSettings) error {
		if err := sb.settings.SaveNotification(notification); err != nil {
			return err
		}
		sb.configMu.Lock()
		sb.config = newConfig
		sb.configMu.Unlock()
		sb.settings.SaveConfig(newConfig)

		sb.restartBackgroundSync()
		return nil
	})

	sb.configWindow.window.SetOnClosed(func() {
		sb.configWindow = nil
	})

	sb.configWindow.Show()
}

// syncCalendars imports weekly events from every configured source into the
// active profile
func (sb *ScheduleBell) syncCalendars() error {
	sb.syncMu.Lock()
	defer sb.syncMu.Unlock()

	sources := sb.currentConfig().ICalSources
	if len(sources) == 0 {
		log.Println("No iCal sources configured")
		return nil
	}

	ctx, cancel := context.WithTimeout(sb.ctx, syncTimeout)
	defer cancel()

	total, err := sb.fetcher.Sync(ctx, sources, sb.tasks)
	log.Printf("Total synced %d weekly tasks from %d iCal sources", total, len(sources))
	return err
}

func (sb *ScheduleBell) currentConfig() models.Config {
	sb.configMu.RLock()
	defer sb.configMu.RUnlock()
	return *sb.config
}

func (sb *ScheduleBell) startBackgroundSync() {
	cfg := sb.currentConfig()
	if len(cfg.ICalSources) > 0 {
		go func() {
			if err := sb.syncCalendars(); err != nil {
				log.Printf("Calendar sync incomplete: %v", err)
			}
		}()
	}

	interval := cfg.UpdateInterval
	if interval <= 0 {
		interval = 30
	}
	ctx, cancel := context.WithCancel(sb.ctx)
	sb.syncCancel = cancel

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sb.syncCalendars(); err != nil {
					log.Printf("Calendar sync incomplete: %v", err)
				}
			}
		}
	}()
}

func (sb *ScheduleBell) restartBackgroundSync() {
	if sb.syncCancel != nil {
		sb.syncCancel()
	}
	sb.startBackgroundSync()
}

func (sb *ScheduleBell) quit() {
	if sb.trayTicker != nil {
		sb.trayTicker.Stop()
	}
	sb.engine.Stop()
	sb.cancel()
	sb.synth.CancelAll()
	sb.app.Quit()
}
