package models

// Occurrence is one sighting of a linkable key in a parsed file.
type Occurrence struct {
	File      string            `json:"file"`
	FileType  FileType          `json:"file_type"`
	Section   string            `json:"section,omitempty"`
	Reference string            `json:"ref,omitempty"`
	Amount    *float64          `json:"amount,omitempty"`
	Date      *Date             `json:"date,omitempty"`
	DaysLate  *int              `json:"days_late,omitempty"`
	Status    string            `json:"status,omitempty"`
	Text      string            `json:"text,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// CrossReferenceStats summarises a CrossReferenceIndex.
type CrossReferenceStats struct {
	TotalKeysExtracted int            `json:"total_keys_extracted"`
	CrossFileMatches   int            `json:"cross_file_matches"`
	MatchesByType      map[string]int `json:"matches_by_type"`
}

// CrossReferenceIndex maps key type to value to every occurrence of that
// value. Only values seen in two or more distinct files are kept.
type CrossReferenceIndex struct {
	CrossRefs map[string]map[string][]Occurrence `json:"cross_refs"`
	Stats     CrossReferenceStats                `json:"stats"`
}

// OpenItem is a statement or register line tagged with its origin.
type OpenItem struct {
	SourceFile    string   `json:"_source_file"`
	SourceSection *string  `json:"_source_section"`
	FileType      FileType `json:"_file_type"`
	Reference     *string  `json:"reference"`
	DocDate       *Date    `json:"doc_date"`
	DueDate       *Date    `json:"due_date"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	Text          *string  `json:"text"`
	Assignment    *string  `json:"assignment"`
	DaysLate      *int     `json:"days_late"`
	Status        *string  `json:"status,omitempty"`
	EntryType     string   `json:"entry_type,omitempty"`
}

// BatchSummary describes a batch at a glance.
type BatchSummary struct {
	FilesLoaded      int        `json:"files_loaded"`
	FileTypesPresent []FileType `json:"file_types_present"`
	CrossFileMatches int        `json:"cross_file_matches"`
	Errors           []string   `json:"session_errors"`
}

// BatchResult is the output of parsing several files together.
type BatchResult struct {
	// BatchID is derived from the file names and contents.
	BatchID string `json:"batch_id"`
	// Files maps the (de-duplicated) file name to its result.
	Files map[string]*ParseResult `json:"files"`
	// FileOrder lists the keys of Files in submission order.
	FileOrder         []string            `json:"file_order"`
	CrossReferences   CrossReferenceIndex `json:"cross_references"`
	CombinedOpenItems []OpenItem          `json:"combined_open_items"`
	Summary           BatchSummary        `json:"session_summary"`
}
