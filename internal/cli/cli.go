// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/promptprep/internal/config"
	"github.com/temirov/promptprep/internal/services/clipboard"
	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	directoryFlagName         = "directory"
	outputFileFlagName        = "output-file"
	clipboardFlagName         = "clipboard"
	includeFilesFlagName      = "include-files"
	extensionsFlagName        = "extensions"
	excludeDirectoriesFlag    = "exclude-dirs"
	excludeFilesFlagName      = "exclude-files"
	maximumFileSizeFlagName   = "max-file-size"
	summaryModeFlagName       = "summary-mode"
	includeCommentsFlagName   = "include-comments"
	noIncludeCommentsFlagName = "no-include-comments"
	metadataFlagName          = "metadata"
	countTokensFlagName       = "count-tokens"
	tokenModelFlagName        = "token-model"
	formatFlagName            = "format"
	lineNumbersFlagName       = "line-numbers"
	gitignoreFlagName         = "gitignore"
	progressFlagName          = "progress"
	configFlagName            = "config"
	versionFlagName           = "version"
	globalFlagName            = "global"
	forceFlagName             = "force"

	defaultDirectory = "."

	rootUse              = "promptprep"
	rootShortDescription = "aggregate source files into a single prompt-ready document"
	rootLongDescription  = `promptprep walks a directory, renders its tree, and concatenates the selected
source files into one document written to a file or copied to the clipboard.
Use --format to select plain, markdown, html, or highlighted output.`
	rootUsageExample = `  # Aggregate the current directory into full_code.txt
  promptprep

  # Copy a Markdown rendering of ./src to the clipboard
  promptprep -d ./src -f markdown -c

  # Outline Python sources with metadata and token counts
  promptprep --summary-mode --metadata --count-tokens`

	initUse              = "init"
	initShortDescription = "write a configuration file holding the default settings"
	initLongDescription  = `Write .promptprep.yaml into the working directory, or ~/.promptprep/config.yaml
with --global. An existing file is replaced only with --force.`

	directoryFlagDescription         = "directory to aggregate"
	outputFileFlagDescription        = "file receiving the aggregated document"
	clipboardFlagDescription         = "copy the aggregated document to the clipboard instead of writing a file"
	includeFilesFlagDescription      = "comma separated relative paths or glob patterns to include exclusively"
	extensionsFlagDescription        = "comma separated file extensions to include (replaces the defaults)"
	excludeDirectoriesFlagDesc       = "comma separated directory names to exclude (replaces the defaults)"
	excludeFilesFlagDescription      = "comma separated file names to exclude (replaces the defaults)"
	maximumFileSizeFlagDescription   = "maximum file size in megabytes"
	summaryModeFlagDescription       = "include only declarations and docstrings of Python files"
	includeCommentsFlagDescription   = "keep comments in the aggregated files"
	noIncludeCommentsFlagDescription = "strip comments from the aggregated files"
	metadataFlagDescription          = "prepend codebase metadata"
	countTokensFlagDescription       = "count tokens of the aggregated files"
	tokenModelFlagDescription        = "tokenizer encoding or model used for token counting"
	formatFlagDescription            = "output format: plain, markdown, html, or highlighted"
	lineNumbersFlagDescription       = "prefix every line with its line number"
	gitignoreFlagDescription         = "skip paths matched by the root .gitignore"
	progressFlagDescription          = "show a progress bar on standard error"
	configFlagDescription            = "configuration file overriding the local .promptprep.yaml"
	versionFlagDescription           = "display application version"
	globalFlagDescription            = "write the global configuration file"
	forceFlagDescription             = "overwrite an existing configuration file"

	versionTemplate                = "promptprep version: %s\n"
	fileCreatedMessageFormat       = "Aggregated file '%s' created successfully.\n"
	clipboardCopiedMessage         = "Aggregated content copied to the clipboard successfully.\n"
	configurationWrittenFormat     = "Configuration written to %s\n"
	warningUnknownFormatMessage    = "unknown output format, using plain text"
	warningTokenizerMessage        = "tokenizer unavailable"
	warningGitignoreMessage        = "unable to load .gitignore"
	errorWorkingDirectoryFormat    = "unable to determine working directory: %w"
	errorAbsolutePathFormat        = "resolve directory %s: %w"
	errorLoadConfigurationFormat   = "load configuration: %w"
	errorInitializeConfigFormat    = "initialize configuration: %w"
	errorNegativeMaximumSizeFormat = "--%s must not be negative, got %v"
)

// errClipboardCopyFailed reports that the document could not be placed on the clipboard.
var errClipboardCopyFailed = errors.New("failed to copy the aggregated content to the clipboard")

// textCopier places text on the clipboard and reports success.
type textCopier interface {
	CopyText(text string) bool
}

// commandDependencies are the process collaborators of the root command.
type commandDependencies struct {
	logger           *zap.Logger
	standardOutput   io.Writer
	standardError    io.Writer
	clipboard        textCopier
	errorIsTerminal  func() bool
	workingDirectory func() (string, error)
}

// Execute runs the promptprep application.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootCommand := createRootCommand(commandDependencies{
		logger:         logger,
		standardOutput: os.Stdout,
		standardError:  os.Stderr,
		clipboard:      clipboard.NewService(logger),
		errorIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
		workingDirectory: os.Getwd,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies commandDependencies) *cobra.Command {
	var options aggregateOptions
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			workingDirectory, workingDirectoryErr := dependencies.workingDirectory()
			if workingDirectoryErr != nil {
				return fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryErr)
			}
			applicationConfiguration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: options.configPath,
			})
			if loadErr != nil {
				return fmt.Errorf(errorLoadConfigurationFormat, loadErr)
			}
			options.applyConfiguration(command.Flags(), applicationConfiguration, dependencies.errorIsTerminal)
			return runAggregation(command, options, workingDirectory, dependencies)
		},
	}
	rootCommand.SetOut(dependencies.standardOutput)
	rootCommand.SetErr(dependencies.standardError)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.directory, directoryFlagName, "d", defaultDirectory, directoryFlagDescription)
	flagSet.StringVarP(&options.outputFile, outputFileFlagName, "o", utils.DefaultOutputFileName, outputFileFlagDescription)
	registerBooleanFlagP(flagSet, &options.clipboard, clipboardFlagName, "c", false, clipboardFlagDescription)
	flagSet.StringSliceVarP(&options.includeFiles, includeFilesFlagName, "i", nil, includeFilesFlagDescription)
	flagSet.StringSliceVarP(&options.extensions, extensionsFlagName, "x", nil, extensionsFlagDescription)
	flagSet.StringSliceVarP(&options.excludedDirectories, excludeDirectoriesFlag, "e", nil, excludeDirectoriesFlagDesc)
	flagSet.StringSliceVar(&options.excludedFiles, excludeFilesFlagName, nil, excludeFilesFlagDescription)
	flagSet.Float64VarP(&options.maximumFileSizeMB, maximumFileSizeFlagName, "m", config.DefaultMaximumFileSizeMB, maximumFileSizeFlagDescription)
	registerBooleanFlag(flagSet, &options.summaryMode, summaryModeFlagName, false, summaryModeFlagDescription)
	registerBooleanFlag(flagSet, &options.includeComments, includeCommentsFlagName, true, includeCommentsFlagDescription)
	registerBooleanFlag(flagSet, &options.noIncludeComments, noIncludeCommentsFlagName, false, noIncludeCommentsFlagDescription)
	registerBooleanFlag(flagSet, &options.metadata, metadataFlagName, false, metadataFlagDescription)
	registerBooleanFlag(flagSet, &options.countTokens, countTokensFlagName, false, countTokensFlagDescription)
	flagSet.StringVar(&options.tokenModel, tokenModelFlagName, config.DefaultTokenModel, tokenModelFlagDescription)
	flagSet.StringVarP(&options.format, formatFlagName, "f", types.FormatPlain, formatFlagDescription)
	registerBooleanFlagP(flagSet, &options.lineNumbers, lineNumbersFlagName, "n", false, lineNumbersFlagDescription)
	registerBooleanFlag(flagSet, &options.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.progress, progressFlagName, false, progressFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	registerBooleanFlag(flagSet, &showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.MarkFlagsMutuallyExclusive(clipboardFlagName, outputFileFlagName)
	rootCommand.MarkFlagsMutuallyExclusive(includeCommentsFlagName, noIncludeCommentsFlagName)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies commandDependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryErr := dependencies.workingDirectory()
			if workingDirectoryErr != nil {
				return fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryErr)
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if initErr != nil {
				return fmt.Errorf(errorInitializeConfigFormat, initErr)
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, destinationPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
