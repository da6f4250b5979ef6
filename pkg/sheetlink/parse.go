package sheetlink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/classify"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/extract"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/loader"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// Parse loads, classifies and extracts one workbook. It always returns a
// result: load failures give an ERROR result, and extractor failures degrade
// to the generic extractor with a <TYPE>_FALLBACK file type.
func Parse(data []byte, filename string, opts Options) *models.ParseResult {
	wb, err := load(data, filename, opts)
	if err != nil {
		return loadFailure(filename, err, opts)
	}
	return ParseWorkbook(wb, filename, opts)
}

// ParseFile parses the workbook at path, named after its base name.
func ParseFile(path string, opts Options) *models.ParseResult {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return loadFailure(name, err, opts)
	}
	return Parse(data, name, opts)
}

// ParseReader parses a workbook read in full from r.
func ParseReader(r io.Reader, filename string, opts Options) *models.ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return loadFailure(filename, err, opts)
	}
	return Parse(data, filename, opts)
}

// ParseBase64 parses a base64 payload, optionally prefixed as a data URL.
func ParseBase64(payload, filename string, opts Options) *models.ParseResult {
	data, err := loader.DecodeBase64(payload)
	if err != nil {
		return loadFailure(filename, err, opts)
	}
	return Parse(data, filename, opts)
}

// ParseWorkbook classifies and extracts an already loaded workbook.
func ParseWorkbook(wb *models.Workbook, filename string, opts Options) *models.ParseResult {
	log := opts.logger().With("file", filename)

	decision := classify.New(opts.Thresholds).Classify(wb)
	ft := decision.Type
	log.Debug("classified workbook", "file_type", ft, "scores", decision.Scores)

	env := opts.env(filename)
	res, err := run(extractorFor(ft, env), wb)
	if err == nil {
		return res
	}
	if ft == models.FileTypeUnknown {
		log.Warn("generic extraction failed", "error", err)
		failed := models.NewResult(models.FileTypeError, filename)
		failed.AddError("Generic extraction failed: %v", err)
		return failed
	}

	primary := NewExtractionError(ft, err)
	log.Warn("extractor failed, falling back to generic extraction", "file_type", ft, "error", primary)

	fallback, ferr := run(extract.NewGeneric(env), wb)
	if ferr != nil {
		log.Warn("generic fallback failed", "error", ferr)
		failed := models.NewResult(models.FileTypeError, filename)
		failed.AddError("Primary parser crashed: %v", primary)
		failed.AddError("Generic fallback also failed: %v", ferr)
		return failed
	}
	fallback.FileType = ft.Fallback()
	fallback.AddError("Primary parser crashed: %v. Fell back to generic extraction.", primary)
	return fallback
}

// extractorFor and loadWorkbook are replaced in tests.
var (
	extractorFor = extract.For
	loadWorkbook = loader.Load
)

// load calls the workbook readers and converts a panic into an error.
func load(data []byte, filename string, opts Options) (wb *models.Workbook, err error) {
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("reader panic: %v", r)
		}
	}()
	return loadWorkbook(data, filename, opts.loaderOptions())
}

// run calls x.Extract and converts a panic into an error.
func run(x extract.Extractor, wb *models.Workbook) (res *models.ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	res, err = x.Extract(wb)
	if err == nil && res == nil {
		err = errors.New("extractor returned no result")
	}
	return res, err
}

func loadFailure(filename string, err error, opts Options) *models.ParseResult {
	lerr := NewLoadError(filename, err)
	opts.logger().Warn("workbook load failed", "file", filename, "error", err)
	res := models.NewResult(models.FileTypeError, filename)
	res.AddError("%v", lerr)
	return res
}
