// Package source checks that an input file can be handed to the parser.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"commission/feecalculator/apperrors"
)

// Validator decides whether the file at path is an acceptable input.
type Validator interface {
	Validate(path string) error
}

// FileValidator accepts existing regular files with a given extension,
// compared case-insensitively.
type FileValidator struct {
	extension string
}

// NewFileValidator creates a FileValidator. The extension may be given with
// or without its leading dot.
func NewFileValidator(extension string) *FileValidator {
	return &FileValidator{extension: strings.TrimPrefix(strings.ToLower(extension), ".")}
}

func (v *FileValidator) Validate(path string) error {
	if path == "" {
		return apperrors.InputFileError(path, "no input file given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.InputFileError(path, "file does not exist")
	}
	if info.IsDir() {
		return apperrors.InputFileError(path, "is a directory")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext != v.extension {
		return apperrors.InputFileError(path, "file extension should be "+v.extension)
	}

	return nil
}
