// Package types defines every cross-package data structure used by the promptprep CLI.
package types

import "github.com/temirov/promptprep/internal/utils"

const (
	FormatPlain       = "plain"
	FormatMarkdown    = "markdown"
	FormatHTML        = "html"
	FormatHighlighted = "highlighted"

	MetadataKeyFiles        = "files"
	MetadataKeyTotalLines   = "total_lines"
	MetadataKeyCodeLines    = "code_lines"
	MetadataKeyCommentLines = "comment_lines"
	MetadataKeyBlankLines   = "blank_lines"
	MetadataKeyCommentRatio = "comment_ratio"
	MetadataKeyTokenCount   = "token_count"
)

// SupportedFormats lists the output format names in the order they are documented.
var SupportedFormats = []string{FormatPlain, FormatMarkdown, FormatHTML, FormatHighlighted}

// FilterConfiguration decides which files take part in one aggregation run.
// It is built once per run and never mutated afterwards.
type FilterConfiguration struct {
	ExcludedDirectories map[string]struct{}
	ExcludedFiles       map[string]struct{}
	IncludedFiles       []string
	Extensions          map[string]struct{}
	MaximumFileSizeMB   float64
}

// FileCandidate is a file that passed the selector, with its size read once.
type FileCandidate struct {
	AbsolutePath string
	RelativePath string
	SizeBytes    int64
}

// SizeMB reports the candidate size in megabytes.
func (candidate FileCandidate) SizeMB() float64 {
	return utils.BytesToMegabytes(candidate.SizeBytes)
}

// SkippedFile records a candidate excluded for exceeding the size limit.
type SkippedFile struct {
	RelativePath string
	SizeMB       float64
}

// MetadataEntry is a single metric rendered in the metadata block.
type MetadataEntry struct {
	Key   string
	Value any
}

// Metadata is an ordered list of metrics describing the aggregated files.
type Metadata struct {
	Entries []MetadataEntry
}

// Set replaces the value of key, appending the entry when absent.
func (metadata *Metadata) Set(key string, value any) {
	for index := range metadata.Entries {
		if metadata.Entries[index].Key == key {
			metadata.Entries[index].Value = value
			return
		}
	}
	metadata.Entries = append(metadata.Entries, MetadataEntry{Key: key, Value: value})
}

// FileResult is the outcome of reading and transforming one candidate file.
// Exactly one of Content or FailureMessage is meaningful, selected by Failed.
type FileResult struct {
	Candidate      FileCandidate
	Content        string
	Failed         bool
	FailureMessage string
}

// NewFileContent returns a successful FileResult.
func NewFileContent(candidate FileCandidate, content string) FileResult {
	return FileResult{Candidate: candidate, Content: content}
}

// NewFileFailure returns a FileResult carrying a failure message.
func NewFileFailure(candidate FileCandidate, message string) FileResult {
	return FileResult{Candidate: candidate, Failed: true, FailureMessage: message}
}
