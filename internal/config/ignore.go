package config

import (
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/promptprep/internal/utils"
)

const errorCompileGitignoreFormat = "compile %s: %w"

// LoadGitignoreMatcher compiles the .gitignore found at the root of rootDirectory.
// It returns a nil matcher when the directory has no .gitignore.
//
// #nosec G304
func LoadGitignoreMatcher(rootDirectory string) (*ignore.GitIgnore, error) {
	gitignorePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	info, statErr := os.Stat(gitignorePath)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorCompileGitignoreFormat, gitignorePath, statErr)
	}
	if info.IsDir() {
		return nil, nil
	}
	matcher, compileErr := ignore.CompileIgnoreFile(gitignorePath)
	if compileErr != nil {
		return nil, fmt.Errorf(errorCompileGitignoreFormat, gitignorePath, compileErr)
	}
	return matcher, nil
}
