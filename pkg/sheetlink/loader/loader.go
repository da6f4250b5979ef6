// Package loader turns workbook bytes into the untyped cell grid consumed by
// the layout detectors and extractors.
package loader

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

var (
	// ErrUnsupportedFormat is returned for bytes that are neither an OOXML
	// package nor a legacy OLE2 workbook.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
	// ErrEmptyWorkbook is returned when no sheet could be read.
	ErrEmptyWorkbook = errors.New("workbook has no readable sheets")
	// ErrDecode is returned for malformed base64 payloads.
	ErrDecode = errors.New("invalid base64 payload")
)

// Format is the container format of a workbook.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatXLS
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	}
	return "unknown"
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Detect sniffs the container format from the leading bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	}
	return FormatUnknown
}

// Options controls how workbooks are read.
type Options struct {
	// StreamThresholdBytes switches OOXML files at least this large to the
	// streaming reader. Zero disables streaming.
	StreamThresholdBytes int64
	// Logger receives per-sheet warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Load reads a workbook from memory. name becomes the workbook name.
func Load(data []byte, name string, opts Options) (*models.Workbook, error) {
	var (
		wb  *models.Workbook
		err error
	)
	switch Detect(data) {
	case FormatXLSX:
		if opts.StreamThresholdBytes > 0 && int64(len(data)) >= opts.StreamThresholdBytes {
			wb, err = loadStream(data, opts)
		} else {
			wb, err = loadXLSX(data, opts)
		}
	case FormatXLS:
		wb, err = loadXLS(data, opts)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	wb.Name = name
	return wb, nil
}

// LoadReader reads the whole stream and loads it.
func LoadReader(r io.Reader, name string, opts Options) (*models.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return Load(data, name, opts)
}

// LoadFile loads the workbook at path, named after its base name.
func LoadFile(path string, opts Options) (*models.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return Load(data, filepath.Base(path), opts)
}

// DecodeBase64 decodes a base64 upload, accepting an optional data URL
// prefix such as "data:application/vnd.ms-excel;base64,".
func DecodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if _, rest, ok := strings.Cut(payload, ";base64,"); ok {
			payload = rest
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}
