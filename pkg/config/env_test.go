package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("SCHEDULE_BELL_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("SCHEDULE_BELL_TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("SCHEDULE_BELL_RINGTONE_DIR", "/srv/tones")
	t.Setenv("SCHEDULE_BELL_SPEECH_ENGINE", "espeak")

	env, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "123:abc", env.TelegramToken)
	assert.Equal(t, int64(-100200), env.TelegramChatID)
	assert.Equal(t, "/srv/tones", env.RingtoneDir)
	assert.Equal(t, "espeak", env.SpeechEngine)
	assert.True(t, env.TelegramEnabled())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCHEDULE_BELL_TELEGRAM_TOKEN", "")
	t.Setenv("SCHEDULE_BELL_TELEGRAM_CHAT_ID", "")
	t.Setenv("SCHEDULE_BELL_RINGTONE_DIR", "")
	t.Setenv("SCHEDULE_BELL_SPEECH_ENGINE", "")

	env, err := Load()

	require.NoError(t, err)
	assert.False(t, env.TelegramEnabled())
	assert.Empty(t, env.SpeechEngine)
}

func TestLoad_BadChatID(t *testing.T) {
	t.Setenv("SCHEDULE_BELL_TELEGRAM_CHAT_ID", "general")

	_, err := Load()

	assert.ErrorContains(t, err, "SCHEDULE_BELL_TELEGRAM_CHAT_ID")
}
