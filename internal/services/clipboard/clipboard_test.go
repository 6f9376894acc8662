package clipboard_test

import (
	"errors"
	"os/exec"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/promptprep/internal/services/clipboard"
)

type recordedCommand struct {
	name        string
	arguments   []string
	environment []string
	text        string
}

type commandRecorder struct {
	commands []recordedCommand
	err      error
}

func (recorder *commandRecorder) run(name string, arguments []string, environment []string, text string) error {
	recorder.commands = append(recorder.commands, recordedCommand{name: name, arguments: arguments, environment: environment, text: text})
	return recorder.err
}

func lookPathFor(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, candidate := range available {
			if candidate == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCopyDispatchesByOperatingSystem(t *testing.T) {
	testCases := []struct {
		name            string
		operatingSystem string
		available       []string
		expected        recordedCommand
	}{
		{
			name:            "darwin",
			operatingSystem: "darwin",
			available:       []string{"pbcopy"},
			expected:        recordedCommand{name: "pbcopy", environment: []string{"LANG=en_US.UTF-8"}, text: "payload"},
		},
		{
			name:            "windows",
			operatingSystem: "windows",
			available:       []string{"clip"},
			expected:        recordedCommand{name: "clip", text: "payload"},
		},
		{
			name:            "linux prefers xclip",
			operatingSystem: "linux",
			available:       []string{"xclip", "xsel"},
			expected:        recordedCommand{name: "xclip", arguments: []string{"-selection", "clipboard"}, text: "payload"},
		},
		{
			name:            "linux falls back to xsel",
			operatingSystem: "linux",
			available:       []string{"xsel"},
			expected:        recordedCommand{name: "xsel", arguments: []string{"-ib"}, text: "payload"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := &commandRecorder{}
			service := clipboard.NewService(zap.NewNop(),
				clipboard.WithOperatingSystem(testCase.operatingSystem),
				clipboard.WithLookPath(lookPathFor(testCase.available...)),
				clipboard.WithCommandRunner(recorder.run),
				clipboard.WithFallback(nil),
			)
			if err := service.Copy("payload"); err != nil {
				t.Fatalf("Copy error: %v", err)
			}
			if len(recorder.commands) != 1 {
				t.Fatalf("expected one command, got %d", len(recorder.commands))
			}
			if !reflect.DeepEqual(recorder.commands[0], testCase.expected) {
				t.Fatalf("command = %+v, want %+v", recorder.commands[0], testCase.expected)
			}
		})
	}
}

func TestCopyReportsUnavailableUtilities(t *testing.T) {
	testCases := []struct {
		name            string
		operatingSystem string
	}{
		{name: "linux without utilities", operatingSystem: "linux"},
		{name: "darwin without pbcopy", operatingSystem: "darwin"},
		{name: "unsupported system", operatingSystem: "plan9"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := &commandRecorder{}
			service := clipboard.NewService(zap.NewNop(),
				clipboard.WithOperatingSystem(testCase.operatingSystem),
				clipboard.WithLookPath(lookPathFor()),
				clipboard.WithCommandRunner(recorder.run),
				clipboard.WithFallback(nil),
			)
			err := service.Copy("payload")
			if !errors.Is(err, clipboard.ErrClipboardUnavailable) {
				t.Fatalf("expected ErrClipboardUnavailable, got %v", err)
			}
			if len(recorder.commands) != 0 {
				t.Fatalf("did not expect commands to run")
			}
		})
	}
}

func TestCopyUsesLinuxFallback(t *testing.T) {
	var copied string
	service := clipboard.NewService(zap.NewNop(),
		clipboard.WithOperatingSystem("linux"),
		clipboard.WithLookPath(lookPathFor()),
		clipboard.WithFallback(func(text string) error {
			copied = text
			return nil
		}),
	)
	if err := service.Copy("payload"); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if copied != "payload" {
		t.Fatalf("fallback received %q", copied)
	}
}

func TestCopyTextLogsFailure(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	recorder := &commandRecorder{err: errors.New("xclip failed: cannot open display")}
	service := clipboard.NewService(zap.New(core),
		clipboard.WithOperatingSystem("linux"),
		clipboard.WithLookPath(lookPathFor("xclip")),
		clipboard.WithCommandRunner(recorder.run),
	)
	if service.CopyText("payload") {
		t.Fatalf("expected CopyText to report failure")
	}
	if recorded.Len() != 1 {
		t.Fatalf("expected one warning, got %d", recorded.Len())
	}

	recorder.err = nil
	if !service.CopyText("payload") {
		t.Fatalf("expected CopyText to report success")
	}
}
