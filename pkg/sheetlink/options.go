// Package sheetlink parses business workbooks of unknown layout into
// canonical records and links the records of several files together.
package sheetlink

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/extract"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/loader"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/xref"
)

// DefaultStreamThreshold is the OOXML size from which the streaming reader
// is used.
const DefaultStreamThreshold int64 = 32 << 20

// Options configures parsing behavior.
type Options struct {
	// Thresholds tunes the layout detectors and the classifier.
	Thresholds layout.Thresholds
	// Now is the clock for derived days-late values. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Concurrency bounds how many files of a batch are parsed at once.
	// Zero or less means runtime.NumCPU().
	Concurrency int
	// StreamThresholdBytes switches large OOXML files to the streaming
	// reader. Zero disables streaming.
	StreamThresholdBytes int64
	// SerialPatterns replace the default engine serial patterns used to
	// find serials in free text. Each pattern's first matching group is
	// the key.
	SerialPatterns []string
}

// DefaultOptions returns default parsing options.
func DefaultOptions() Options {
	return Options{
		Thresholds:           layout.DefaultThresholds(),
		Concurrency:          runtime.NumCPU(),
		StreamThresholdBytes: DefaultStreamThreshold,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.NumCPU()
}

func (o Options) loaderOptions() loader.Options {
	return loader.Options{
		StreamThresholdBytes: o.StreamThresholdBytes,
		Logger:               o.logger(),
	}
}

func (o Options) env(filename string) extract.Env {
	return extract.Env{
		Thresholds: o.Thresholds,
		Now:        o.Now,
		Logger:     o.logger(),
		Filename:   filename,
	}
}

// Linker returns the cross-reference builder for these options.
func (o Options) Linker() (*xref.Builder, error) {
	if len(o.SerialPatterns) == 0 {
		return xref.NewBuilder(), nil
	}
	x, err := xref.NewRegexpExtractor(xref.KeyESN, o.SerialPatterns...)
	if err != nil {
		return nil, err
	}
	return xref.NewBuilder(x), nil
}
