package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FileType is the workbook family chosen by the classifier.
type FileType string

const (
	// FileTypeSOA is a customer statement of account.
	FileTypeSOA FileType = "SOA"
	// FileTypeInvoiceList is a flat invoice register export.
	FileTypeInvoiceList FileType = "INVOICE_LIST"
	// FileTypeOpportunityTracker is a commercial opportunity tracker.
	FileTypeOpportunityTracker FileType = "OPPORTUNITY_TRACKER"
	// FileTypeShopVisit is an engine shop-visit / maintenance history.
	FileTypeShopVisit FileType = "SHOP_VISIT_HISTORY"
	// FileTypeSVRG is a guarantee-administration master workbook.
	FileTypeSVRG FileType = "SVRG_MASTER"
	// FileTypeUnknown means no family scored above zero.
	FileTypeUnknown FileType = "UNKNOWN"
	// FileTypeError means the workbook could not be loaded.
	FileTypeError FileType = "ERROR"
)

const fallbackSuffix = "_FALLBACK"

// KnownFileTypes lists the recognised families in tie-break order.
func KnownFileTypes() []FileType {
	return []FileType{
		FileTypeSOA,
		FileTypeInvoiceList,
		FileTypeOpportunityTracker,
		FileTypeShopVisit,
		FileTypeSVRG,
	}
}

// Fallback returns the type reported when the extractor for t failed and the
// generic extractor was used instead.
func (t FileType) Fallback() FileType {
	return t + fallbackSuffix
}

// IsFallback reports whether t was produced by Fallback.
func (t FileType) IsFallback() bool {
	return strings.HasSuffix(string(t), fallbackSuffix)
}

// Date is a calendar day. It serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the ISO calendar form.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Metadata holds free-form scalars discovered near the top of a sheet.
type Metadata map[string]any

// ParseResult is the canonical per-file output. Exactly one of the format
// payloads is set, except for ERROR results where none is.
type ParseResult struct {
	// FileType is the detected family, UNKNOWN, ERROR or <TYPE>_FALLBACK.
	FileType FileType `json:"file_type"`
	// Metadata holds scalar facts about the file.
	Metadata Metadata `json:"metadata"`
	// Statement is set for SOA files.
	Statement *StatementData `json:"statement,omitempty"`
	// Invoices is set for INVOICE_LIST files.
	Invoices *InvoiceData `json:"invoice_list,omitempty"`
	// Opportunities is set for OPPORTUNITY_TRACKER files.
	Opportunities *OpportunityData `json:"opportunity_tracker,omitempty"`
	// ShopVisits is set for SHOP_VISIT_HISTORY files.
	ShopVisits *ShopVisitData `json:"shop_visit_history,omitempty"`
	// Guarantee is set for SVRG_MASTER files.
	Guarantee *GuaranteeData `json:"svrg_master,omitempty"`
	// Generic is set for UNKNOWN and fallback results.
	Generic *GenericData `json:"generic,omitempty"`
	// AllSheets lists every sheet name in workbook order.
	AllSheets []string `json:"all_sheets,omitempty"`
	// Errors is always present, possibly empty.
	Errors []string `json:"errors"`
}

// NewResult returns an empty result with source_file metadata set.
func NewResult(fileType FileType, sourceFile string) *ParseResult {
	return &ParseResult{
		FileType: fileType,
		Metadata: Metadata{"source_file": sourceFile},
		Errors:   []string{},
	}
}

// AddError appends a formatted message to Errors.
func (r *ParseResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// SourceFile returns the source_file metadata entry.
func (r *ParseResult) SourceFile() string {
	if s, ok := r.Metadata["source_file"].(string); ok {
		return s
	}
	return ""
}
