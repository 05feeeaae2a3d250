package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	installed map[string]bool
	output    string
	block     bool

	mu      sync.Mutex
	calls   []call
	started chan struct{}
}

func newFakeRunner(installed ...string) *fakeRunner {
	r := &fakeRunner{installed: map[string]bool{}, started: make(chan struct{}, 16)}
	for _, name := range installed {
		r.installed[name] = true
	}
	return r
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.installed[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found")
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, call{name: name, args: args})
	r.mu.Unlock()
	r.started <- struct{}{}

	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(r.output), nil
}

func (r *fakeRunner) recorded() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func TestNewCommandSynthesizer_PicksPlatformEngine(t *testing.T) {
	assert.Equal(t, EngineSay, newCommandSynthesizer("", "darwin", newFakeRunner("say")).Engine())
	assert.Equal(t, EngineEspeak, newCommandSynthesizer("", "linux", newFakeRunner("espeak")).Engine())
	assert.Equal(t, EngineEspeakNG, newCommandSynthesizer("", "linux", newFakeRunner("espeak", "espeak-ng")).Engine())
	assert.Equal(t, EnginePowerShell, newCommandSynthesizer("", "windows", newFakeRunner("powershell")).Engine())
	assert.Equal(t, EngineEspeak, newCommandSynthesizer("espeak", "darwin", newFakeRunner("say", "espeak")).Engine())
}

func TestCommandSynthesizer_UnavailableIsSilent(t *testing.T) {
	runner := newFakeRunner()
	s := newCommandSynthesizer("", "linux", runner)

	s.Speak(Utterance{Text: "hello"})
	s.Wait()

	assert.False(t, s.Available())
	assert.Nil(t, s.Voices())
	assert.Empty(t, runner.recorded())
}

func TestCommandSynthesizer_SpeaksInOrder(t *testing.T) {
	runner := newFakeRunner("espeak-ng")
	s := newCommandSynthesizer("", "linux", runner)
	voice := &Voice{URI: "vi", Name: "Vietnamese Northern", Lang: "vi"}

	s.Speak(Utterance{Text: "Đã đến giờ: A", Voice: voice, Volume: 0.8})
	s.Speak(Utterance{Text: "Đã đến giờ: B", Lang: "en-US", Volume: 1})
	s.Wait()

	calls := runner.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"-v", "vi", "-a", "80", "Đã đến giờ: A"}, calls[0].args)
	assert.Equal(t, []string{"-v", "en", "-a", "100", "Đã đến giờ: B"}, calls[1].args)
}

func TestCommandSynthesizer_SayArgs(t *testing.T) {
	runner := newFakeRunner("say")
	s := newCommandSynthesizer("", "darwin", runner)

	s.Speak(Utterance{Text: "Hi", Voice: &Voice{URI: "Linh", Name: "Linh", Lang: "vi-VN"}, Volume: 0.5})
	s.Wait()

	calls := runner.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-v", "Linh", "[[volm 0.50]] Hi"}, calls[0].args)
}

func TestCommandSynthesizer_PowerShellQuotes(t *testing.T) {
	runner := newFakeRunner("powershell")
	s := newCommandSynthesizer("", "windows", runner)

	s.Speak(Utterance{Text: "It's time", Volume: 1})
	s.Wait()

	calls := runner.recorded()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].args[2], "$s.Speak('It''s time')")
	assert.Contains(t, calls[0].args[2], "$s.Volume = 100")
}

func TestCommandSynthesizer_CancelAll(t *testing.T) {
	runner := newFakeRunner("espeak-ng")
	runner.block = true
	s := newCommandSynthesizer("", "linux", runner)

	s.Speak(Utterance{Text: "one"})
	s.Speak(Utterance{Text: "two"})
	s.Speak(Utterance{Text: "three"})

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("first utterance never started")
	}
	s.CancelAll()
	s.Wait()

	calls := runner.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "one", calls[0].args[len(calls[0].args)-1])
}

func TestCommandSynthesizer_VoicesFromEspeak(t *testing.T) {
	runner := newFakeRunner("espeak-ng")
	runner.output = "Pty Language       Age/Gender VoiceName          File                 Other Languages\n" +
		" 5  en-us           --/M      English_(America)  gmw/en-US            (en 10)\n" +
		" 5  vi              --/M      Vietnamese_Northern sit/vi\n"
	s := newCommandSynthesizer("", "linux", runner)

	voices := s.Voices()

	require.Len(t, voices, 2)
	assert.Equal(t, Voice{URI: "en-us", Name: "English (America)", Lang: "en-US"}, voices[0])
	assert.Equal(t, Voice{URI: "vi", Name: "Vietnamese Northern", Lang: "vi"}, voices[1])
}

func TestParseSayVoices(t *testing.T) {
	out := "Alex                en_US    # Most people recognize me by my voice.\n" +
		"Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.\n" +
		"Linh                vi_VN    # Xin chào, tên tôi là Linh.\n" +
		"garbage line\n"

	voices := parseSayVoices(out)

	require.Len(t, voices, 3)
	assert.Equal(t, "Bad News", voices[1].Name)
	assert.Equal(t, Voice{URI: "Linh", Name: "Linh", Lang: "vi-VN"}, voices[2])
}

func TestParseWindowsVoices(t *testing.T) {
	voices := parseWindowsVoices("Microsoft An|vi-VN\r\nMicrosoft Zira Desktop|en-US\r\n\r\n")

	require.Len(t, voices, 2)
	assert.Equal(t, Voice{URI: "Microsoft An", Name: "Microsoft An", Lang: "vi-VN"}, voices[0])
}

func TestResolveVoice(t *testing.T) {
	voices := []Voice{
		{URI: "Alex", Name: "Alex", Lang: "en-US"},
		{URI: "Linh", Name: "Linh", Lang: "vi-VN"},
	}

	assert.Equal(t, "Alex", ResolveVoice(voices, "Alex").URI)
	assert.Equal(t, "Linh", ResolveVoice(voices, "default").URI)
	assert.Equal(t, "vi", ResolveVoice([]Voice{{URI: "en"}, {URI: "vi", Lang: "vi"}}, "x").URI)
	assert.Nil(t, ResolveVoice(voices[:1], "default"))
	assert.Nil(t, ResolveVoice(nil, "Alex"))
}
