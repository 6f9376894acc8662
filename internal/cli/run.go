package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/promptprep/internal/aggregator"
	"github.com/temirov/promptprep/internal/config"
	"github.com/temirov/promptprep/internal/formatter"
	"github.com/temirov/promptprep/internal/output"
	"github.com/temirov/promptprep/internal/selector"
	"github.com/temirov/promptprep/internal/tokenizer"
	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

// aggregateOptions holds the resolved settings of one aggregation run.
type aggregateOptions struct {
	directory           string
	outputFile          string
	clipboard           bool
	includeFiles        []string
	extensions          []string
	excludedDirectories []string
	excludedFiles       []string
	maximumFileSizeMB   float64
	summaryMode         bool
	includeComments     bool
	noIncludeComments   bool
	metadata            bool
	countTokens         bool
	tokenModel          string
	format              string
	lineNumbers         bool
	useGitignore        bool
	progress            bool
	configPath          string
}

// applyConfiguration fills every option whose flag was not given on the command line from
// the configuration files. Flags keep their built-in defaults when the files are silent.
func (options *aggregateOptions) applyConfiguration(flagSet *pflag.FlagSet, configuration config.ApplicationConfiguration, errorIsTerminal func() bool) {
	unset := func(name string) bool {
		return !flagSet.Changed(name)
	}
	if unset(outputFileFlagName) && configuration.OutputFile != utils.EmptyString {
		options.outputFile = configuration.OutputFile
	}
	if unset(formatFlagName) && configuration.Format != utils.EmptyString {
		options.format = configuration.Format
	}
	if unset(extensionsFlagName) && len(configuration.Extensions) > 0 {
		options.extensions = configuration.Extensions
	}
	if unset(excludeDirectoriesFlag) && len(configuration.ExcludedDirectories) > 0 {
		options.excludedDirectories = configuration.ExcludedDirectories
	}
	if unset(excludeFilesFlagName) && len(configuration.ExcludedFiles) > 0 {
		options.excludedFiles = configuration.ExcludedFiles
	}
	if unset(maximumFileSizeFlagName) && configuration.MaximumFileSizeMB != nil {
		options.maximumFileSizeMB = *configuration.MaximumFileSizeMB
	}
	if unset(tokenModelFlagName) && configuration.TokenModel != utils.EmptyString {
		options.tokenModel = configuration.TokenModel
	}
	applyBoolean(&options.summaryMode, unset(summaryModeFlagName), configuration.SummaryMode)
	applyBoolean(&options.metadata, unset(metadataFlagName), configuration.Metadata)
	applyBoolean(&options.countTokens, unset(countTokensFlagName), configuration.CountTokens)
	applyBoolean(&options.lineNumbers, unset(lineNumbersFlagName), configuration.LineNumbers)
	applyBoolean(&options.useGitignore, unset(gitignoreFlagName), configuration.UseGitignore)

	if !unset(noIncludeCommentsFlagName) {
		options.includeComments = !options.noIncludeComments
	} else {
		applyBoolean(&options.includeComments, unset(includeCommentsFlagName), configuration.IncludeComments)
	}

	if unset(progressFlagName) {
		if configuration.Progress != nil {
			options.progress = *configuration.Progress
		} else if errorIsTerminal != nil {
			options.progress = errorIsTerminal()
		}
	}
}

func applyBoolean(target *bool, unset bool, configured *bool) {
	if unset && configured != nil {
		*target = *configured
	}
}

// runAggregation builds the collaborators for one run, aggregates, and delivers the document.
func runAggregation(command *cobra.Command, options aggregateOptions, workingDirectory string, dependencies commandDependencies) error {
	logger := dependencies.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.maximumFileSizeMB < 0 {
		return fmt.Errorf(errorNegativeMaximumSizeFormat, maximumFileSizeFlagName, options.maximumFileSizeMB)
	}

	rootDirectory, rootErr := filepath.Abs(resolveAgainst(workingDirectory, options.directory))
	if rootErr != nil {
		return fmt.Errorf(errorAbsolutePathFormat, options.directory, rootErr)
	}

	if options.outputFile == utils.EmptyString {
		options.outputFile = utils.DefaultOutputFileName
	}

	formatName := strings.ToLower(strings.TrimSpace(options.format))
	outputFormatter, formatterErr := formatter.New(formatName)
	if formatterErr != nil {
		logger.Warn(warningUnknownFormatMessage, zap.String("format", options.format))
		formatName = types.FormatPlain
		outputFormatter = formatter.NewPlain()
	}
	outputPath := output.CorrectExtension(resolveAgainst(workingDirectory, options.outputFile), formatName)

	filterConfiguration := config.BuildFilterConfiguration(config.FilterOptions{
		Extensions:          options.extensions,
		ExcludedDirectories: options.excludedDirectories,
		ExcludedFiles:       options.excludedFiles,
		IncludedFiles:       relativeIncludeEntries(options.includeFiles, rootDirectory),
		MaximumFileSizeMB:   &options.maximumFileSizeMB,
		OutputFileName:      filepath.Base(outputPath),
	})
	fileSelector := selector.New(filterConfiguration, loadIgnoreMatcher(options.useGitignore, rootDirectory, logger))

	var tokenCounter tokenizer.Counter
	if options.countTokens {
		tokenCounter, _ = tokenizer.NewCounterWithFallback(tokenizer.Config{Model: options.tokenModel}, func(message string) {
			logger.Warn(warningTokenizerMessage, zap.String("detail", message))
		})
	}

	var progressWriter io.Writer
	if options.progress {
		progressWriter = command.ErrOrStderr()
	}

	document, aggregateErr := aggregator.New(aggregator.Options{
		RootDirectory:   rootDirectory,
		SummaryMode:     options.summaryMode,
		IncludeComments: options.includeComments,
		CollectMetadata: options.metadata,
		CountTokens:     options.countTokens,
		LineNumbers:     options.lineNumbers,
	}, aggregator.Dependencies{
		Formatter:      outputFormatter,
		Selector:       fileSelector,
		TokenCounter:   tokenCounter,
		Logger:         logger,
		ProgressWriter: progressWriter,
	}).Aggregate()
	if aggregateErr != nil {
		return aggregateErr
	}

	if options.clipboard {
		if dependencies.clipboard == nil || !dependencies.clipboard.CopyText(document) {
			return errClipboardCopyFailed
		}
		_, err := fmt.Fprint(command.OutOrStdout(), clipboardCopiedMessage)
		return err
	}

	if _, writeErr := output.WriteFile(outputPath, document, formatName); writeErr != nil {
		return writeErr
	}
	_, err := fmt.Fprintf(command.OutOrStdout(), fileCreatedMessageFormat, output.CorrectExtension(options.outputFile, formatName))
	return err
}

// loadIgnoreMatcher returns the root .gitignore matcher, or nil when disabled or absent.
func loadIgnoreMatcher(enabled bool, rootDirectory string, logger *zap.Logger) selector.IgnoreMatcher {
	if !enabled {
		return nil
	}
	matcher, loadErr := config.LoadGitignoreMatcher(rootDirectory)
	if loadErr != nil {
		logger.Warn(warningGitignoreMessage, zap.String("directory", rootDirectory), zap.Error(loadErr))
		return nil
	}
	if matcher == nil {
		return nil
	}
	return matcher
}

func resolveAgainst(workingDirectory string, path string) string {
	if path == utils.EmptyString {
		path = defaultDirectory
	}
	if filepath.IsAbs(path) || workingDirectory == utils.EmptyString {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

// relativeIncludeEntries rewrites absolute include entries relative to the root directory.
func relativeIncludeEntries(entries []string, rootDirectory string) []string {
	relativeEntries := make([]string, 0, len(entries))
	for _, entry := range entries {
		if filepath.IsAbs(entry) {
			entry = utils.RelativePathOrSelf(entry, rootDirectory)
		}
		relativeEntries = append(relativeEntries, entry)
	}
	return relativeEntries
}
