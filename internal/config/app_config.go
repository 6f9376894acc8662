// Package config loads promptprep configuration files and builds filter configurations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/promptprep/internal/utils"
)

const (
	errorWorkingDirectoryFormat  = "determine working directory: %w"
	errorResolveConfigPathFormat = "resolve configuration path %s: %w"
	errorStatConfigFormat        = "stat configuration %s: %w"
	errorConfigIsDirectoryFormat = "configuration path %s is a directory"
	errorReadConfigFormat        = "read configuration from %s: %w"
	errorDecodeConfigFormat      = "decode configuration from %s: %w"
	errorExplicitConfigFormat    = "configuration file %s does not exist"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults read from configuration files.
// Pointer fields distinguish an absent key from an explicit zero value.
type ApplicationConfiguration struct {
	OutputFile          string   `mapstructure:"output_file" yaml:"output_file,omitempty"`
	Format              string   `mapstructure:"format" yaml:"format,omitempty"`
	Extensions          []string `mapstructure:"extensions" yaml:"extensions,omitempty"`
	ExcludedDirectories []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs,omitempty"`
	ExcludedFiles       []string `mapstructure:"exclude_files" yaml:"exclude_files,omitempty"`
	MaximumFileSizeMB   *float64 `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb,omitempty"`
	SummaryMode         *bool    `mapstructure:"summary_mode" yaml:"summary_mode,omitempty"`
	IncludeComments     *bool    `mapstructure:"include_comments" yaml:"include_comments,omitempty"`
	Metadata            *bool    `mapstructure:"metadata" yaml:"metadata,omitempty"`
	CountTokens         *bool    `mapstructure:"count_tokens" yaml:"count_tokens,omitempty"`
	TokenModel          string   `mapstructure:"token_model" yaml:"token_model,omitempty"`
	LineNumbers         *bool    `mapstructure:"line_numbers" yaml:"line_numbers,omitempty"`
	UseGitignore        *bool    `mapstructure:"use_gitignore" yaml:"use_gitignore,omitempty"`
	Progress            *bool    `mapstructure:"progress" yaml:"progress,omitempty"`
}

// LoadApplicationConfiguration loads the global configuration file and overlays the local
// one, or the explicitly requested file, on top of it.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == utils.EmptyString {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != utils.EmptyString {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != utils.EmptyString {
		if _, statErr := os.Stat(localPath); os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, fmt.Errorf(errorExplicitConfigFormat, localPath)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == utils.EmptyString {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	absolutePath, err := filepath.Abs(filepath.Join(workingDirectory, explicitPath))
	if err != nil {
		return utils.EmptyString, fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
	}
	return absolutePath, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var configuration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if override.OutputFile != utils.EmptyString {
		result.OutputFile = override.OutputFile
	}
	if override.Format != utils.EmptyString {
		result.Format = override.Format
	}
	if len(override.Extensions) > 0 {
		result.Extensions = utils.NormalizeList(override.Extensions)
	}
	if len(override.ExcludedDirectories) > 0 {
		result.ExcludedDirectories = utils.NormalizeList(override.ExcludedDirectories)
	}
	if len(override.ExcludedFiles) > 0 {
		result.ExcludedFiles = utils.NormalizeList(override.ExcludedFiles)
	}
	if override.MaximumFileSizeMB != nil {
		result.MaximumFileSizeMB = cloneFloat(override.MaximumFileSizeMB)
	}
	if override.SummaryMode != nil {
		result.SummaryMode = cloneBool(override.SummaryMode)
	}
	if override.IncludeComments != nil {
		result.IncludeComments = cloneBool(override.IncludeComments)
	}
	if override.Metadata != nil {
		result.Metadata = cloneBool(override.Metadata)
	}
	if override.CountTokens != nil {
		result.CountTokens = cloneBool(override.CountTokens)
	}
	if override.TokenModel != utils.EmptyString {
		result.TokenModel = override.TokenModel
	}
	if override.LineNumbers != nil {
		result.LineNumbers = cloneBool(override.LineNumbers)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.Progress != nil {
		result.Progress = cloneBool(override.Progress)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
