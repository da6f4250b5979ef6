package sheetlink

import (
	"errors"
	"fmt"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// ErrNoFiles indicates an upload payload without any files.
var ErrNoFiles = errors.New("no files in upload payload")

// LoadError represents a workbook that could not be opened.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(filename string, err error) *LoadError {
	return &LoadError{Filename: filename, Err: err}
}

// ExtractionError represents a failure inside a format extractor.
type ExtractionError struct {
	FileType models.FileType
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extractor: %v", e.FileType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(fileType models.FileType, err error) *ExtractionError {
	return &ExtractionError{
		FileType: fileType,
		Err:      err,
	}
}
