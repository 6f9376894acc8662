package config

import (
	"strings"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	// DefaultMaximumFileSizeMB is the size limit applied when none is configured.
	DefaultMaximumFileSizeMB = 100.0
	// DefaultTokenModel names the encoding used for token counting.
	DefaultTokenModel = "cl100k_base"
	extensionPrefix   = "."
)

// DefaultExtensions returns the programming and markup extensions aggregated by default.
func DefaultExtensions() []string {
	return []string{
		".py", ".java", ".c", ".cpp", ".h", ".hpp", ".cs", ".vb", ".r", ".rb", ".go", ".php",
		".swift", ".kt", ".rs", ".scala", ".pl", ".lua",
		".js", ".jsx", ".ts", ".tsx", ".html", ".css", ".scss", ".less", ".sass",
		".sh", ".zsh", ".fish", ".ps1", ".bat", ".cmd",
		".sql", ".psql", ".db", ".sqlite",
		".xml", ".json", ".toml", ".ini", ".yml", ".yaml",
		".md", ".rst",
		".makefile", ".gradle", ".cmake", ".ninja",
		".pqm", ".pq",
	}
}

// DefaultExcludedDirectories returns directory names pruned by default.
func DefaultExcludedDirectories() []string {
	return []string{"venv", "node_modules", "__pycache__", utils.GitDirectoryName, "dist", "build", "temp", "old_files", "flask_session"}
}

// DefaultExcludedFiles returns file names skipped by default.
func DefaultExcludedFiles() []string {
	return []string{utils.DefaultOutputFileName}
}

// FilterOptions carries the raw, user supplied filter lists.
// An empty list selects the corresponding default set and a nil size limit selects
// DefaultMaximumFileSizeMB. A zero size limit admits only empty files.
type FilterOptions struct {
	Extensions          []string
	ExcludedDirectories []string
	ExcludedFiles       []string
	IncludedFiles       []string
	MaximumFileSizeMB   *float64
	OutputFileName      string
}

// DefaultFilterConfiguration returns the filter configuration used when no option is set.
func DefaultFilterConfiguration() types.FilterConfiguration {
	return BuildFilterConfiguration(FilterOptions{})
}

// BuildFilterConfiguration normalizes options into an immutable FilterConfiguration.
// Extensions are lowercased and given a leading dot. The output file name, when present,
// is always excluded so that a run never aggregates its own output.
func BuildFilterConfiguration(options FilterOptions) types.FilterConfiguration {
	extensions := options.Extensions
	if len(utils.NormalizeList(extensions)) == 0 {
		extensions = DefaultExtensions()
	}
	excludedDirectories := options.ExcludedDirectories
	if len(utils.NormalizeList(excludedDirectories)) == 0 {
		excludedDirectories = DefaultExcludedDirectories()
	}
	excludedFiles := options.ExcludedFiles
	if len(utils.NormalizeList(excludedFiles)) == 0 {
		excludedFiles = DefaultExcludedFiles()
	}
	maximumFileSizeMB := DefaultMaximumFileSizeMB
	if options.MaximumFileSizeMB != nil {
		maximumFileSizeMB = *options.MaximumFileSizeMB
	}

	normalizedExtensions := make([]string, 0, len(extensions))
	for _, extension := range utils.NormalizeList(extensions) {
		normalizedExtensions = append(normalizedExtensions, NormalizeExtension(extension))
	}

	excludedFileSet := utils.SetFromList(utils.NormalizeList(excludedFiles))
	if options.OutputFileName != utils.EmptyString {
		excludedFileSet[options.OutputFileName] = struct{}{}
	}

	return types.FilterConfiguration{
		ExcludedDirectories: utils.SetFromList(utils.NormalizeList(excludedDirectories)),
		ExcludedFiles:       excludedFileSet,
		IncludedFiles:       utils.NormalizeList(options.IncludedFiles),
		Extensions:          utils.SetFromList(normalizedExtensions),
		MaximumFileSizeMB:   maximumFileSizeMB,
	}
}

// NormalizeExtension lowercases an extension and ensures it starts with a dot.
func NormalizeExtension(extension string) string {
	lowered := strings.ToLower(strings.TrimSpace(extension))
	if lowered == utils.EmptyString || strings.HasPrefix(lowered, extensionPrefix) {
		return lowered
	}
	return extensionPrefix + lowered
}
