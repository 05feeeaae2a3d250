package models

import (
	"strings"
	"time"
)

// FiredKey identifies one notification instance that already fired today
type FiredKey string

// Kinds of task notification, used as the FiredKey suffix
const (
	KindMain = "main"
	KindPre  = "pre"
)

const workdayKeyPrefix = "workday-"

// MainKey returns the key for a task's due-time firing
func MainKey(taskID string) FiredKey {
	return FiredKey(taskID + "-" + KindMain)
}

// PreKey returns the key for a task's pre-notification firing
func PreKey(taskID string) FiredKey {
	return FiredKey(taskID + "-" + KindPre)
}

// WorkdayKey returns the key for a workday milestone at the given HH:MM
func WorkdayKey(clock string) FiredKey {
	return FiredKey(workdayKeyPrefix + clock)
}

// TaskID extracts the task ID from a main or pre key. ok is false for workday keys.
func (k FiredKey) TaskID() (id string, ok bool) {
	s := string(k)
	if strings.HasPrefix(s, workdayKeyPrefix) {
		return "", false
	}
	for _, suffix := range []string{"-" + KindMain, "-" + KindPre} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix), true
		}
	}
	return "", false
}

// DueNotification is a composed message ready for speech synthesis
type DueNotification struct {
	Text string
}

// PopupPayload is the on-screen representation of the most recently fired notification
type PopupPayload struct {
	ID              FiredKey
	Message         string
	CountdownTarget *time.Time // set for pre-notifications only
}

// HasCountdown reports whether the popup carries a countdown target
func (p PopupPayload) HasCountdown() bool {
	return p.CountdownTarget != nil
}

// Texts returns the message texts of a due batch, in order
func Texts(due []DueNotification) []string {
	texts := make([]string, 0, len(due))
	for _, d := range due {
		texts = append(texts, d.Text)
	}
	return texts
}
