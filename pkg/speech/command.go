package speech

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Engines understood by CommandSynthesizer
const (
	EngineSay        = "say"
	EngineEspeakNG   = "espeak-ng"
	EngineEspeak     = "espeak"
	EnginePowerShell = "powershell"
)

// Runner executes external commands. Tests replace it with a fake.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandSynthesizer speaks through the platform TTS command line tool. Utterances
// run one at a time on a worker goroutine.
type CommandSynthesizer struct {
	engine string
	path   string
	runner Runner

	voicesOnce sync.Once
	voices     []Voice

	mu      sync.Mutex
	queue   []Utterance
	cancel  context.CancelFunc // of the utterance being spoken
	running bool
	idle    *sync.Cond
}

// NewCommandSynthesizer picks engine, or the platform default when engine is empty
func NewCommandSynthesizer(engine string) *CommandSynthesizer {
	return newCommandSynthesizer(engine, runtime.GOOS, execRunner{})
}

func newCommandSynthesizer(engine, goos string, runner Runner) *CommandSynthesizer {
	s := &CommandSynthesizer{runner: runner}
	s.idle = sync.NewCond(&s.mu)

	candidates := []string{engine}
	if engine == "" {
		switch goos {
		case "darwin":
			candidates = []string{EngineSay}
		case "windows":
			candidates = []string{EnginePowerShell}
		default:
			candidates = []string{EngineEspeakNG, EngineEspeak}
		}
	}
	for _, c := range candidates {
		if path, err := runner.LookPath(c); err == nil {
			s.engine, s.path = c, path
			break
		}
	}

	if s.engine == "" {
		log.Printf("No speech engine found (tried %s)", strings.Join(candidates, ", "))
	} else {
		log.Printf("Using speech engine %s", s.path)
	}
	return s
}

// Engine returns the engine in use, or "" when none was found
func (s *CommandSynthesizer) Engine() string {
	return s.engine
}

// Available reports whether an engine was found
func (s *CommandSynthesizer) Available() bool {
	return s.engine != ""
}

// Voices lists the engine's voices. The list is read once.
func (s *CommandSynthesizer) Voices() []Voice {
	if !s.Available() {
		return nil
	}
	s.voicesOnce.Do(func() {
		voices, err := s.listVoices()
		if err != nil {
			log.Printf("Failed to list voices: %v", err)
			return
		}
		s.voices = voices
	})
	return s.voices
}

func (s *CommandSynthesizer) listVoices() ([]Voice, error) {
	ctx := context.Background()
	switch s.engine {
	case EngineSay:
		out, err := s.runner.Output(ctx, s.path, "-v", "?")
		if err != nil {
			return nil, err
		}
		return parseSayVoices(string(out)), nil
	case EngineEspeakNG, EngineEspeak:
		out, err := s.runner.Output(ctx, s.path, "--voices")
		if err != nil {
			return nil, err
		}
		return parseEspeakVoices(string(out)), nil
	case EnginePowerShell:
		script := "Add-Type -AssemblyName System.Speech; " +
			"(New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | " +
			"ForEach-Object { $_.VoiceInfo.Name + '|' + $_.VoiceInfo.Culture.Name }"
		out, err := s.runner.Output(ctx, s.path, "-NoProfile", "-Command", script)
		if err != nil {
			return nil, err
		}
		return parseWindowsVoices(string(out)), nil
	}
	return nil, fmt.Errorf("unknown engine %q", s.engine)
}

// Speak queues an utterance. It never blocks on synthesis.
func (s *CommandSynthesizer) Speak(u Utterance) {
	if !s.Available() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, u)
	if !s.running {
		s.running = true
		go s.work()
	}
}

// CancelAll drops queued utterances and interrupts the one being spoken
func (s *CommandSynthesizer) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = nil
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the queue is empty and nothing is being spoken
func (s *CommandSynthesizer) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.running {
		s.idle.Wait()
	}
}

func (s *CommandSynthesizer) work() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.cancel = nil
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		u := s.queue[0]
		s.queue = s.queue[1:]
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.mu.Unlock()

		name, args := s.command(u)
		err := s.runner.Run(ctx, name, args...)
		if err != nil && ctx.Err() == nil {
			log.Printf("Speech failed: %v", err)
		}
		cancel()
	}
}

// command builds the engine invocation for one utterance
func (s *CommandSynthesizer) command(u Utterance) (string, []string) {
	volume := clampVolume(u.Volume)

	switch s.engine {
	case EngineSay:
		args := []string{}
		if u.Voice != nil {
			args = append(args, "-v", u.Voice.Name)
		}
		return s.path, append(args, fmt.Sprintf("[[volm %.2f]] %s", volume, u.Text))

	case EnginePowerShell:
		var script strings.Builder
		script.WriteString("Add-Type -AssemblyName System.Speech; ")
		script.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
		fmt.Fprintf(&script, "$s.Volume = %d; ", int(volume*100))
		if u.Voice != nil {
			fmt.Fprintf(&script, "try { $s.SelectVoice('%s') } catch {}; ", psQuote(u.Voice.Name))
		}
		fmt.Fprintf(&script, "$s.Speak('%s')", psQuote(u.Text))
		return s.path, []string{"-NoProfile", "-Command", script.String()}

	default:
		voice := primaryLanguage(u.Lang)
		if u.Voice != nil {
			voice = u.Voice.URI
		}
		if voice == "" {
			voice = primaryLanguage(DefaultLanguage)
		}
		// espeak amplitude runs 0..200 with 100 as normal
		return s.path, []string{"-v", voice, "-a", fmt.Sprint(int(volume * 100)), u.Text}
	}
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
