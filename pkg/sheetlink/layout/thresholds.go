// Package layout infers sheet structure from cell content and position:
// header rows, section titles, summary rows and column roles.
package layout

// Thresholds holds the tuning constants of the layout detectors. The
// defaults were fitted to the known export formats; deployments with other
// layouts can override them through configuration.
type Thresholds struct {
	// HeaderMinCells is the minimum number of non-blank cells in a header row.
	HeaderMinCells int `yaml:"header_min_cells"`
	// HeaderNumericGuard rejects a header candidate holding any number
	// whose absolute value exceeds it.
	HeaderNumericGuard float64 `yaml:"header_numeric_guard"`
	// HeaderShortTextLen is the exclusive length bound of a "short" label.
	HeaderShortTextLen int `yaml:"header_short_text_len"`
	// HeaderMinHits is the minimum number of keyword hits.
	HeaderMinHits int `yaml:"header_min_hits"`
	// HeaderMinShortTexts is the minimum number of short labels.
	HeaderMinShortTexts int `yaml:"header_min_short_texts"`
	// SectionMaxCells is the maximum number of non-blank cells in a section title row.
	SectionMaxCells int `yaml:"section_max_cells"`
	// SummaryLabelMaxLen is the maximum length of a summary label cell.
	SummaryLabelMaxLen int `yaml:"summary_label_max_len"`
	// MetadataScanRows is how many top rows are searched for metadata labels.
	MetadataScanRows int `yaml:"metadata_scan_rows"`
	// HeaderScanRows is how many top rows are searched for a header.
	HeaderScanRows int `yaml:"header_scan_rows"`
	// LookRightSpan is how many cells right of a label may hold its value.
	LookRightSpan int `yaml:"look_right_span"`
	// ClassifierScanRows is how many top rows of each sheet feed the classifier.
	ClassifierScanRows int `yaml:"classifier_scan_rows"`
	// SheetNameBoost is the classifier score for a known sheet name.
	SheetNameBoost int `yaml:"sheet_name_boost"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeaderMinCells:      4,
		HeaderNumericGuard:  100,
		HeaderShortTextLen:  35,
		HeaderMinHits:       3,
		HeaderMinShortTexts: 3,
		SectionMaxCells:     3,
		SummaryLabelMaxLen:  25,
		MetadataScanRows:    15,
		HeaderScanRows:      20,
		LookRightSpan:       5,
		ClassifierScanRows:  25,
		SheetNameBoost:      8,
	}
}

// WithDefaults replaces zero fields with their default value.
func (t Thresholds) WithDefaults() Thresholds {
	d := DefaultThresholds()
	if t.HeaderMinCells <= 0 {
		t.HeaderMinCells = d.HeaderMinCells
	}
	if t.HeaderNumericGuard <= 0 {
		t.HeaderNumericGuard = d.HeaderNumericGuard
	}
	if t.HeaderShortTextLen <= 0 {
		t.HeaderShortTextLen = d.HeaderShortTextLen
	}
	if t.HeaderMinHits <= 0 {
		t.HeaderMinHits = d.HeaderMinHits
	}
	if t.HeaderMinShortTexts <= 0 {
		t.HeaderMinShortTexts = d.HeaderMinShortTexts
	}
	if t.SectionMaxCells <= 0 {
		t.SectionMaxCells = d.SectionMaxCells
	}
	if t.SummaryLabelMaxLen <= 0 {
		t.SummaryLabelMaxLen = d.SummaryLabelMaxLen
	}
	if t.MetadataScanRows <= 0 {
		t.MetadataScanRows = d.MetadataScanRows
	}
	if t.HeaderScanRows <= 0 {
		t.HeaderScanRows = d.HeaderScanRows
	}
	if t.LookRightSpan <= 0 {
		t.LookRightSpan = d.LookRightSpan
	}
	if t.ClassifierScanRows <= 0 {
		t.ClassifierScanRows = d.ClassifierScanRows
	}
	if t.SheetNameBoost <= 0 {
		t.SheetNameBoost = d.SheetNameBoost
	}
	return t
}
