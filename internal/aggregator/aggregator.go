// Package aggregator assembles the directory tree and the selected files into one document.
package aggregator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/promptprep/internal/formatter"
	"github.com/temirov/promptprep/internal/selector"
	"github.com/temirov/promptprep/internal/summary"
	"github.com/temirov/promptprep/internal/tokenizer"
	"github.com/temirov/promptprep/internal/tree"
	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	tokenCountPlaceholder  = "\x00promptprep-token-count\x00"
	estimatedTokenSuffix   = " (estimated)"
	readErrorMessageFormat = "Error reading file %s: %v"

	warningReadFileMessage   = "unable to read file"
	warningCountTokenMessage = "unable to count tokens"
	warningTreeMessage       = "directory tree"
)

// Options selects the optional stages of an aggregation run.
type Options struct {
	RootDirectory   string
	SummaryMode     bool
	IncludeComments bool
	CollectMetadata bool
	CountTokens     bool
	LineNumbers     bool
	DocumentTitle   string
}

// Dependencies are the collaborators used by an Aggregator.
type Dependencies struct {
	Formatter      formatter.Formatter
	Selector       *selector.Selector
	TokenCounter   tokenizer.Counter
	Logger         *zap.Logger
	ProgressWriter io.Writer
}

// Aggregator builds the aggregated document for one run.
type Aggregator struct {
	options      Options
	formatter    formatter.Formatter
	selector     *selector.Selector
	treeRenderer *tree.Renderer
	tokenCounter tokenizer.Counter
	logger       *zap.Logger
	progress     io.Writer
}

// New creates an Aggregator. A nil logger is replaced by a no-op logger.
func New(options Options, dependencies Dependencies) *Aggregator {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.DocumentTitle == utils.EmptyString {
		options.DocumentTitle = formatter.DefaultDocumentTitle
	}
	aggregator := &Aggregator{
		options:      options,
		formatter:    dependencies.Formatter,
		selector:     dependencies.Selector,
		tokenCounter: dependencies.TokenCounter,
		logger:       logger,
		progress:     dependencies.ProgressWriter,
	}
	aggregator.treeRenderer = tree.NewRenderer(dependencies.Selector, func(message string) {
		logger.Warn(warningTreeMessage, zap.String("detail", message))
	})
	return aggregator
}

// processedFile is a read file with the transformations of the run applied.
type processedFile struct {
	result     types.FileResult
	lineCounts LineCounts
}

// Aggregate runs every stage and returns the finished document.
// When the root directory is missing it returns the formatted error text together
// with an error wrapping tree.ErrDirectoryNotFound.
func (aggregator *Aggregator) Aggregate() (string, error) {
	directoryTree, treeErr := aggregator.treeRenderer.Render(aggregator.options.RootDirectory)
	if treeErr != nil {
		return aggregator.finishDocument(aggregator.formatter.FormatError(treeErr.Error())), treeErr
	}

	candidates, enumerateErr := enumerateCandidates(aggregator.options.RootDirectory, aggregator.selector, aggregator.logger)
	if enumerateErr != nil {
		return aggregator.finishDocument(aggregator.formatter.FormatError(enumerateErr.Error())), enumerateErr
	}

	processedFiles := make([]processedFile, 0, len(candidates.process))
	for _, candidate := range candidates.process {
		processedFiles = append(processedFiles, aggregator.processFile(candidate))
	}

	var document strings.Builder
	if aggregator.options.CollectMetadata || aggregator.options.CountTokens {
		document.WriteString(aggregator.formatter.FormatMetadata(aggregator.buildMetadata(processedFiles)))
		document.WriteString("\n")
	}
	document.WriteString(aggregator.formatter.FormatDirectoryTree(directoryTree))

	progress := newProgressReporter(aggregator.progress, len(processedFiles))
	totalTokens := 0
	for _, processed := range processedFiles {
		relativePath := processed.result.Candidate.RelativePath
		document.WriteString(aggregator.formatter.FormatFileHeader(relativePath))
		if processed.result.Failed {
			document.WriteString(aggregator.formatter.FormatError(processed.result.FailureMessage))
			progress.advance()
			continue
		}
		content := processed.result.Content
		if aggregator.options.LineNumbers {
			content = NumberLines(content)
		}
		document.WriteString(aggregator.formatter.FormatCodeContent(content, relativePath))
		if aggregator.options.CountTokens {
			totalTokens += aggregator.countTokens(processed.result.Content, relativePath)
		}
		progress.advance()
	}
	progress.finish()

	document.WriteString(aggregator.formatter.FormatSkippedFiles(candidates.skipped))

	body := document.String()
	if aggregator.options.CountTokens {
		body = strings.Replace(body, tokenCountPlaceholder, aggregator.tokenCountText(totalTokens), 1)
	}
	return aggregator.finishDocument(body), nil
}

// processFile reads one candidate once and applies comment stripping and summary mode.
//
// #nosec G304
func (aggregator *Aggregator) processFile(candidate types.FileCandidate) processedFile {
	data, readErr := os.ReadFile(candidate.AbsolutePath)
	if readErr != nil {
		aggregator.logger.Warn(warningReadFileMessage, zap.String("path", candidate.RelativePath), zap.Error(readErr))
		return processedFile{result: types.NewFileFailure(candidate, fmt.Sprintf(readErrorMessageFormat, candidate.RelativePath, readErr))}
	}
	content := utils.ToValidText(data)
	commentStyle := CommentStyleFor(candidate.RelativePath)
	lineCounts := CountLines(content, commentStyle.Marker)

	if !aggregator.options.IncludeComments {
		content = StripComments(content, commentStyle)
	}
	if aggregator.options.SummaryMode {
		content = summary.Summarize(content, candidate.RelativePath)
	}
	return processedFile{result: types.NewFileContent(candidate, content), lineCounts: lineCounts}
}

func (aggregator *Aggregator) buildMetadata(processedFiles []processedFile) types.Metadata {
	var metadata types.Metadata
	if aggregator.options.CollectMetadata {
		var totals LineCounts
		fileCount := 0
		for _, processed := range processedFiles {
			if processed.result.Failed {
				continue
			}
			fileCount++
			totals.Add(processed.lineCounts)
		}
		metadata.Set(types.MetadataKeyFiles, fileCount)
		metadata.Set(types.MetadataKeyTotalLines, totals.Total)
		metadata.Set(types.MetadataKeyCodeLines, totals.Code)
		metadata.Set(types.MetadataKeyCommentLines, totals.Comment)
		metadata.Set(types.MetadataKeyBlankLines, totals.Blank)
		metadata.Set(types.MetadataKeyCommentRatio, totals.CommentRatio())
	}
	if aggregator.options.CountTokens {
		metadata.Set(types.MetadataKeyTokenCount, tokenCountPlaceholder)
	}
	return metadata
}

func (aggregator *Aggregator) countTokens(content string, relativePath string) int {
	if aggregator.tokenCounter == nil {
		return 0
	}
	result, countErr := tokenizer.CountText(aggregator.tokenCounter, content)
	if countErr != nil {
		aggregator.logger.Warn(warningCountTokenMessage, zap.String("path", relativePath), zap.Error(countErr))
		return 0
	}
	return result.Tokens
}

func (aggregator *Aggregator) tokenCountText(totalTokens int) string {
	text := utils.FormatCount(totalTokens)
	if aggregator.tokenCounter == nil || tokenizer.IsEstimate(aggregator.tokenCounter) {
		text += estimatedTokenSuffix
	}
	return text
}

func (aggregator *Aggregator) finishDocument(body string) string {
	if wrapper, isWrapper := aggregator.formatter.(formatter.DocumentWrapper); isWrapper {
		return wrapper.WrapDocument(body, aggregator.options.DocumentTitle)
	}
	return body
}
