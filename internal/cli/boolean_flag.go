package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleTrueLiteral        = "true"
	toggleAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	longFlagPrefix           = "--"
	shortFlagPrefix          = "-"
	flagValueSeparator       = "="
	argumentsTerminator      = "--"
	errorInvalidToggleFormat = "invalid boolean value %q for --%s; accepted values: %s"
	normalizedToggleFormat   = "--%s=%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral resolves a yes/no style literal. An empty literal means true.
func parseToggleLiteral(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	parsed, known := toggleLiterals[normalized]
	return parsed, known
}

// toggleFlagValue is a pflag value accepting the literals of toggleLiterals.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorInvalidToggleFormat, input, value.flagName, toggleAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	registerBooleanFlagP(flagSet, target, name, "", defaultValue, usage)
}

// registerBooleanFlagP registers a toggle that may be given bare, as --name=value, or as
// --name value once the arguments pass through normalizeBooleanFlagArguments.
func registerBooleanFlagP(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.VarP(&toggleFlagValue{target: target, flagName: name}, name, shorthand, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleTrueLiteral
}

// normalizeBooleanFlagArguments joins a toggle and a following yes/no literal into
// --name=literal, for long names and single letter shorthands alike. Arguments after
// "--" are left untouched.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := collectBooleanFlagNames(command)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentsTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName, isToggle := toggleNameOf(currentArgument, toggleNames)
		if isToggle && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if _, known := parseToggleLiteral(nextArgument); known && nextArgument != "" && !strings.HasPrefix(nextArgument, shortFlagPrefix) {
				normalized = append(normalized, fmt.Sprintf(normalizedToggleFormat, flagName, nextArgument))
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// toggleNameOf returns the long name of a bare toggle argument such as --metadata or -c.
func toggleNameOf(argument string, toggleNames map[string]string) (string, bool) {
	if strings.Contains(argument, flagValueSeparator) {
		return "", false
	}
	flagName, isToggle := toggleNames[argument]
	return flagName, isToggle
}

// collectBooleanFlagNames maps the bare argument forms of every toggle of command and
// its subcommands, --name and -shorthand, to the toggle's long name.
func collectBooleanFlagNames(command *cobra.Command) map[string]string {
	toggleNames := map[string]string{}
	var visitCommand func(*cobra.Command)
	visitCommand = func(current *cobra.Command) {
		visitFlag := func(flag *pflag.Flag) {
			if _, isToggle := flag.Value.(*toggleFlagValue); !isToggle {
				return
			}
			toggleNames[longFlagPrefix+flag.Name] = flag.Name
			if flag.Shorthand != "" {
				toggleNames[shortFlagPrefix+flag.Shorthand] = flag.Name
			}
		}
		current.PersistentFlags().VisitAll(visitFlag)
		current.Flags().VisitAll(visitFlag)
		for _, child := range current.Commands() {
			visitCommand(child)
		}
	}
	if command != nil {
		visitCommand(command)
	}
	return toggleNames
}
