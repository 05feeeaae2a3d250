// Package notify decides which notifications are due at a given instant.
package notify

import (
	"log"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
)

// FiredLookup reports whether a notification already fired today
type FiredLookup interface {
	Contains(key models.FiredKey) bool
}

// Result is the outcome of one evaluation
type Result struct {
	// Reset is true at 00:00. The caller clears the fired set and nothing else is evaluated.
	Reset bool
	Due   []models.DueNotification
	Keys  []models.FiredKey
	Popup *models.PopupPayload
}

// HasDue reports whether anything must be played
func (r Result) HasDue() bool {
	return len(r.Due) > 0
}

// Evaluate returns the notifications due at now. It does not mutate anything.
//
// Tasks are matched on weekday and HH:MM, so a match holds for the whole minute
// and the fired set keeps it from repeating. Task notifications are collected
// in task order (main then pre for each task), then workday milestones. Only
// the last popup candidate is returned.
func Evaluate(now time.Time, tasks []models.Task, settings models.NotificationSettings, fired FiredLookup) Result {
	currentDay := now.Weekday()
	currentTime := models.FormatClock(now)

	if currentTime == "00:00" {
		return Result{Reset: true}
	}

	var res Result
	fire := func(key models.FiredKey, message string, countdown *time.Time) {
		res.Due = append(res.Due, models.DueNotification{Text: message})
		res.Keys = append(res.Keys, key)
		res.Popup = &models.PopupPayload{ID: key, Message: message, CountdownTarget: countdown}
	}

	for _, task := range tasks {
		evaluateTask(now, task, settings, fired, fire)
	}

	if settings.WorkdayNotificationsEnabled && models.IsWorkday(currentDay) {
		for _, m := range WorkdayMilestones(settings) {
			key := models.WorkdayKey(m.Time)
			if m.Time == currentTime && !fired.Contains(key) {
				fire(key, m.Message, nil)
			}
		}
	}

	return res
}

// evaluateTask checks one task's main and pre-notification. A panic is logged
// and only skips this task.
func evaluateTask(now time.Time, task models.Task, settings models.NotificationSettings, fired FiredLookup, fire func(models.FiredKey, string, *time.Time)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Skipping task %s after panic: %v", task.ID, r)
		}
	}()

	currentTime := models.FormatClock(now)
	if task.IsCompleted || task.Weekday() != now.Weekday() {
		return
	}

	mainKey := models.MainKey(task.ID)
	if task.Time == currentTime && !fired.Contains(mainKey) {
		fire(mainKey, settings.NotificationPrefix+" "+task.Text, nil)
	}

	if !settings.PreNotificationEnabled {
		return
	}
	preKey := models.PreKey(task.ID)
	dueAt, err := task.DueAt(now)
	if err != nil {
		// Malformed times are rejected when tasks are created
		return
	}
	notifyAt := dueAt.Add(-time.Duration(settings.PreNotificationTime) * time.Minute)
	if models.FormatClock(notifyAt) == currentTime && !fired.Contains(preKey) {
		target := dueAt
		fire(preKey, settings.PreNotificationPrefix+" "+task.Text, &target)
	}
}
