// Package clipboard copies the aggregated document to the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const (
	operatingSystemDarwin  = "darwin"
	operatingSystemWindows = "windows"
	operatingSystemLinux   = "linux"

	darwinLocaleVariable = "LANG=en_US.UTF-8"

	errorCommandFailedFormat      = "%s failed: %s"
	errorCommandFailedWrapFormat  = "%s failed: %w"
	errorUtilityMissingFormat     = "%w: %s not found in PATH"
	errorNoLinuxUtilityFormat     = "%w: install xclip or xsel"
	errorUnsupportedSystemFormat  = "%w: clipboard operations not supported on %s"
	errorFallbackFailedFormat     = "%w: %v"
	warningClipboardFailedMessage = "unable to copy to the clipboard"
)

// ErrClipboardUnavailable indicates that no clipboard utility could be used.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// CommandRunner executes an external clipboard utility with text on its standard input.
type CommandRunner func(name string, arguments []string, environment []string, text string) error

type clipboardUtility struct {
	name      string
	arguments []string
}

var linuxUtilities = []clipboardUtility{
	{name: "xclip", arguments: []string{"-selection", "clipboard"}},
	{name: "xsel", arguments: []string{"-ib"}},
}

// Service implements Copier with the copy utility of the current operating system.
type Service struct {
	logger          *zap.Logger
	operatingSystem string
	lookPath        func(string) (string, error)
	runCommand      CommandRunner
	fallback        func(string) error
}

// Option customizes a Service.
type Option func(*Service)

// WithOperatingSystem overrides the detected operating system name.
func WithOperatingSystem(operatingSystem string) Option {
	return func(service *Service) {
		service.operatingSystem = operatingSystem
	}
}

// WithLookPath overrides the executable lookup.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(service *Service) {
		service.lookPath = lookPath
	}
}

// WithCommandRunner overrides how clipboard utilities are executed.
func WithCommandRunner(runner CommandRunner) Option {
	return func(service *Service) {
		service.runCommand = runner
	}
}

// WithFallback sets the copier used on Linux when neither xclip nor xsel is installed.
// A nil fallback disables it.
func WithFallback(fallback func(string) error) Option {
	return func(service *Service) {
		service.fallback = fallback
	}
}

// NewService constructs a clipboard Service for the running platform.
func NewService(logger *zap.Logger, options ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &Service{
		logger:          logger,
		operatingSystem: runtime.GOOS,
		lookPath:        exec.LookPath,
		runCommand:      runClipboardCommand,
		fallback:        writeWithLibrary,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	switch service.operatingSystem {
	case operatingSystemDarwin:
		return service.runUtility(clipboardUtility{name: "pbcopy"}, []string{darwinLocaleVariable}, text)
	case operatingSystemWindows:
		return service.runUtility(clipboardUtility{name: "clip"}, nil, text)
	case operatingSystemLinux:
		for _, utility := range linuxUtilities {
			if _, lookErr := service.lookPath(utility.name); lookErr != nil {
				continue
			}
			return service.runCommand(utility.name, utility.arguments, nil, text)
		}
		if service.fallback != nil {
			if fallbackErr := service.fallback(text); fallbackErr != nil {
				return fmt.Errorf(errorFallbackFailedFormat, ErrClipboardUnavailable, fallbackErr)
			}
			return nil
		}
		return fmt.Errorf(errorNoLinuxUtilityFormat, ErrClipboardUnavailable)
	default:
		return fmt.Errorf(errorUnsupportedSystemFormat, ErrClipboardUnavailable, service.operatingSystem)
	}
}

// CopyText copies text and reports success. Failures are logged rather than returned.
func (service *Service) CopyText(text string) bool {
	if copyErr := service.Copy(text); copyErr != nil {
		service.logger.Warn(warningClipboardFailedMessage, zap.String("os", service.operatingSystem), zap.Error(copyErr))
		return false
	}
	return true
}

func (service *Service) runUtility(utility clipboardUtility, environment []string, text string) error {
	if _, lookErr := service.lookPath(utility.name); lookErr != nil {
		return fmt.Errorf(errorUtilityMissingFormat, ErrClipboardUnavailable, utility.name)
	}
	return service.runCommand(utility.name, utility.arguments, environment, text)
}

func runClipboardCommand(name string, arguments []string, environment []string, text string) error {
	command := exec.Command(name, arguments...)
	command.Stdin = strings.NewReader(text)
	if len(environment) > 0 {
		command.Env = append(os.Environ(), environment...)
	}
	var standardError bytes.Buffer
	command.Stderr = &standardError
	if runErr := command.Run(); runErr != nil {
		if message := strings.TrimSpace(standardError.String()); message != "" {
			return fmt.Errorf(errorCommandFailedFormat, name, message)
		}
		return fmt.Errorf(errorCommandFailedWrapFormat, name, runErr)
	}
	return nil
}

func writeWithLibrary(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
