package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"golang.org/x/text/language"
)

// Disabled is the configuration value that turns speech off.
const Disabled = "none"

// candidates are probed in order by Detect.
var candidates = []string{"espeak-ng", "espeak", "say"}

// ArgsFunc builds the argument list for one utterance.
type ArgsFunc func(text string, lang language.Tag) []string

// Command speaks by running an external program such as espeak-ng or say.
type Command struct {
	Path   string
	Args   ArgsFunc
	Logger *slog.Logger
}

var _ Speaker = (*Command)(nil)

// NewCommand creates a Command for the program at path, picking an argument
// style from the program name.
func NewCommand(path string) *Command {
	c := &Command{Path: path, Logger: slog.Default()}
	switch filepath.Base(path) {
	case "espeak-ng", "espeak":
		c.Args = espeakArgs
	case "say":
		c.Args = sayArgs
	default:
		c.Args = func(text string, _ language.Tag) []string { return []string{text} }
	}
	return c
}

func (c *Command) Speak(ctx context.Context, text string, lang language.Tag, cb Callbacks) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args(text, lang)...)
	cb.start()
	err := cmd.Run()
	if ctx.Err() != nil {
		cb.end()
		return nil
	}
	if err != nil {
		err = fmt.Errorf("speak with %s: %w", filepath.Base(c.Path), err)
		if c.Logger != nil {
			c.Logger.Warn("speech failed", "error", err, "lang", lang.String())
		}
		cb.fail(err)
		return err
	}
	cb.end()
	return nil
}

// New returns the Speaker for a configured command: Disabled yields Nop,
// an empty value probes the known programs, anything else must be on PATH.
func New(command string, logger *slog.Logger) (Speaker, error) {
	switch command {
	case Disabled:
		return Nop{}, nil
	case "":
		return Detect(logger), nil
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Nop{}, fmt.Errorf("speech command %q: %w", command, ErrUnavailable)
	}
	c := NewCommand(path)
	c.Logger = logger
	return c, nil
}

// Detect returns a Command for the first known program found on PATH, or
// Nop if there is none.
func Detect(logger *slog.Logger) Speaker {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			c := NewCommand(path)
			c.Logger = logger
			return c
		}
	}
	return Nop{}
}

func espeakArgs(text string, lang language.Tag) []string {
	base, _ := lang.Base()
	return []string{"-v", base.String(), text}
}

// sayVoices maps base languages to stock macOS voices.
var sayVoices = map[string]string{
	"ko": "Yuna",
	"en": "Samantha",
	"ja": "Kyoko",
}

func sayArgs(text string, lang language.Tag) []string {
	base, _ := lang.Base()
	if voice, ok := sayVoices[base.String()]; ok {
		return []string{"-v", voice, text}
	}
	return []string{text}
}
