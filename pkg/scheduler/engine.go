// Package scheduler runs the once-per-second evaluation loop that turns the
// weekly task list into notifications.
package scheduler

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/notify"
	"github.com/borgmon/schedule-bell/pkg/store"
	"github.com/jonboulle/clockwork"
)

// TickInterval is how often the task list is evaluated
const TickInterval = time.Second

const forwardTimeout = 15 * time.Second

// TaskSource returns the current task list
type TaskSource interface {
	List() []models.Task
}

// SettingsSource returns the current notification settings
type SettingsSource interface {
	Notification() models.NotificationSettings
}

// Player plays a due batch
type Player interface {
	Play(texts []string, settings models.NotificationSettings)
}

// PopupPublisher shows the popup for a batch
type PopupPublisher interface {
	ShowPopup(popup models.PopupPayload)
}

// Forwarder sends a due batch somewhere else, e.g. a chat
type Forwarder interface {
	Forward(ctx context.Context, texts []string) error
}

// Engine owns the fired set and evaluates tasks on every tick
type Engine struct {
	clock      clockwork.Clock
	tasks      TaskSource
	settings   SettingsSource
	player     Player
	popups     PopupPublisher
	forwarders []Forwarder

	fired *store.FiredSet

	// Serializes ticks
	tickMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an Engine. popups may be nil.
func New(clk clockwork.Clock, tasks TaskSource, settings SettingsSource, player Player, popups PopupPublisher) *Engine {
	return &Engine{
		clock:    clk,
		tasks:    tasks,
		settings: settings,
		player:   player,
		popups:   popups,
		fired:    store.NewFiredSet(),
	}
}

// AddForwarder registers a forwarder. Call before Start.
func (e *Engine) AddForwarder(f Forwarder) {
	e.forwarders = append(e.forwarders, f)
}

// Fired returns the set of notifications that already fired today
func (e *Engine) Fired() *store.FiredSet {
	return e.fired
}

// Start evaluates once immediately and then every TickInterval until ctx is
// cancelled or Stop is called. It blocks.
func (e *Engine) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	e.mu.Lock()
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	defer close(done)
	defer cancel()

	log.Println("Scheduler started")
	ticker := e.clock.NewTicker(TickInterval)
	defer ticker.Stop()

	e.Tick(e.clock.Now())

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case now := <-ticker.Chan():
			// A tick may be pending when cancellation arrives
			if ctx.Err() != nil {
				log.Println("Scheduler stopped")
				return
			}
			e.Tick(now)
		}
	}
}

// Stop cancels a running Start and waits for it to return
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Tick evaluates the task list at now. Evaluation, fired set update, playback
// and popup happen in that order. A panic is logged and does not escape.
func (e *Engine) Tick(now time.Time) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	var res notify.Result
	var settings models.NotificationSettings
	ok := guard("evaluate", func() {
		settings = e.settings.Notification()
		res = notify.Evaluate(now, e.tasks.List(), settings, e.fired)
	})
	if !ok {
		return
	}

	if res.Reset {
		if e.fired.Len() > 0 {
			log.Printf("Midnight reset: clearing %d fired notifications", e.fired.Len())
		}
		e.fired.Clear()
		return
	}
	if !res.HasDue() {
		return
	}

	e.fired.Add(res.Keys...)
	texts := models.Texts(res.Due)
	log.Printf("Firing %d notifications at %s", len(texts), models.FormatClock(now))

	guard("playback", func() {
		e.player.Play(texts, settings)
	})

	if res.Popup != nil && e.popups != nil {
		popup := *res.Popup
		guard("popup", func() {
			e.popups.ShowPopup(popup)
		})
	}

	for _, f := range e.forwarders {
		go e.forward(f, texts)
	}
}

func (e *Engine) forward(f Forwarder, texts []string) {
	ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
	defer cancel()

	guard("forward", func() {
		if err := f.Forward(ctx, texts); err != nil {
			log.Printf("Failed to forward notifications: %v", err)
		}
	})
}

// guard runs fn and reports whether it returned without panicking
func guard(stage string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in %s: %v\n%s", stage, r, debug.Stack())
			ok = false
		}
	}()
	fn()
	return true
}
