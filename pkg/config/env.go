// Package config reads process environment settings. User-facing settings live
// in the app preferences instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const appDirName = "schedule-bell"

type Env struct {
	TelegramToken  string
	TelegramChatID int64
	RingtoneDir    string
	SpeechEngine   string // empty picks the platform default
}

// Load reads the environment, after an optional .env file in the working directory
func Load() (*Env, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
	}

	env := &Env{
		TelegramToken: os.Getenv("SCHEDULE_BELL_TELEGRAM_TOKEN"),
		RingtoneDir:   getEnvOrDefault("SCHEDULE_BELL_RINGTONE_DIR", defaultRingtoneDir()),
		SpeechEngine:  os.Getenv("SCHEDULE_BELL_SPEECH_ENGINE"),
	}

	if raw := os.Getenv("SCHEDULE_BELL_TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULE_BELL_TELEGRAM_CHAT_ID must be a number: %w", err)
		}
		env.TelegramChatID = id
	}

	return env, nil
}

// TelegramEnabled reports whether due batches should be forwarded to Telegram
func (e *Env) TelegramEnabled() bool {
	return e.TelegramToken != "" && e.TelegramChatID != 0
}

func defaultRingtoneDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, "ringtones")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
