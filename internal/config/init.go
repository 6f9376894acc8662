package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationHeader = "# promptprep configuration\n"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == utils.EmptyString {
			current, err := os.Getwd()
			if err != nil {
				return utils.EmptyString, fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return utils.EmptyString, fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return utils.EmptyString, fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
	default:
		return utils.EmptyString, fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return utils.EmptyString, fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return utils.EmptyString, fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	encodedConfiguration, encodeErr := yaml.Marshal(DefaultApplicationConfiguration())
	if encodeErr != nil {
		return utils.EmptyString, fmt.Errorf("encode default configuration: %w", encodeErr)
	}
	content := append([]byte(configurationHeader), encodedConfiguration...)
	if err := os.WriteFile(destinationPath, content, 0o600); err != nil {
		return utils.EmptyString, fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}

// DefaultApplicationConfiguration returns the configuration written by InitializeConfiguration.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	falseValue := false
	trueValue := true
	maximumFileSizeMB := DefaultMaximumFileSizeMB
	return ApplicationConfiguration{
		OutputFile:          utils.DefaultOutputFileName,
		Format:              types.FormatPlain,
		Extensions:          DefaultExtensions(),
		ExcludedDirectories: DefaultExcludedDirectories(),
		ExcludedFiles:       DefaultExcludedFiles(),
		MaximumFileSizeMB:   &maximumFileSizeMB,
		SummaryMode:         cloneBool(&falseValue),
		IncludeComments:     cloneBool(&trueValue),
		Metadata:            cloneBool(&falseValue),
		CountTokens:         cloneBool(&falseValue),
		TokenModel:          DefaultTokenModel,
		LineNumbers:         cloneBool(&falseValue),
		UseGitignore:        cloneBool(&falseValue),
	}
}
