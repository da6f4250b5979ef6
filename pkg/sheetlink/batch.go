package sheetlink

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/loader"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/xref"
)

// batchNamespace scopes batch IDs.
var batchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sheetlink:batch"))

// Source is one named workbook of a batch.
type Source struct {
	Name string
	Data []byte

	decodeErr error
}

// ParseBatch parses every source in parallel, then links the results.
// Cancelling ctx stops new files from being started; files already being
// parsed run to completion and skipped files are reported in the session
// errors.
func ParseBatch(ctx context.Context, sources []Source, opts Options) *models.BatchResult {
	log := opts.logger()
	names := uniqueNames(sources)
	results := make([]*models.ParseResult, len(sources))

	var g errgroup.Group
	g.SetLimit(opts.concurrency())
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if src.decodeErr != nil {
				results[i] = loadFailure(names[i], src.decodeErr, opts)
				return nil
			}
			results[i] = Parse(src.Data, names[i], opts)
			return nil
		})
	}
	_ = g.Wait()

	out := &models.BatchResult{
		BatchID:           batchID(names, sources),
		Files:             make(map[string]*models.ParseResult, len(sources)),
		FileOrder:         []string{},
		CombinedOpenItems: []models.OpenItem{},
		Summary:           models.BatchSummary{FileTypesPresent: []models.FileType{}, Errors: []string{}},
	}

	files := make([]xref.File, 0, len(sources))
	types := map[models.FileType]bool{}
	for i, res := range results {
		name := names[i]
		if res == nil {
			out.Summary.Errors = append(out.Summary.Errors, fmt.Sprintf("Skipped '%s': %v", name, ctx.Err()))
			continue
		}
		if res.FileType == models.FileTypeError {
			out.Summary.Errors = append(out.Summary.Errors, fmt.Sprintf("Failed to parse '%s': %s", name, strings.Join(res.Errors, "; ")))
		}
		out.Files[name] = res
		out.FileOrder = append(out.FileOrder, name)
		types[res.FileType] = true
		files = append(files, xref.File{Name: name, Result: res})
	}

	linker, err := opts.Linker()
	if err != nil {
		log.Warn("invalid serial patterns, using defaults", "error", err)
		out.Summary.Errors = append(out.Summary.Errors, fmt.Sprintf("Invalid serial patterns: %v", err))
		linker = xref.NewBuilder()
	}
	out.CrossReferences = linker.Build(files)
	out.CombinedOpenItems = xref.CombinedOpenItems(files)

	for ft := range types {
		out.Summary.FileTypesPresent = append(out.Summary.FileTypesPresent, ft)
	}
	sort.Slice(out.Summary.FileTypesPresent, func(i, j int) bool {
		return out.Summary.FileTypesPresent[i] < out.Summary.FileTypesPresent[j]
	})
	out.Summary.FilesLoaded = len(out.Files)
	out.Summary.CrossFileMatches = out.CrossReferences.Stats.CrossFileMatches

	log.Info("batch parsed",
		"batch_id", out.BatchID,
		"files", out.Summary.FilesLoaded,
		"cross_file_matches", out.Summary.CrossFileMatches,
	)
	return out
}

// uniqueNames suffixes repeated names with " (2)", " (3)" and so on, before
// the extension.
func uniqueNames(sources []Source) []string {
	seen := make(map[string]bool, len(sources))
	names := make([]string, len(sources))
	for i, src := range sources {
		name := src.Name
		if strings.TrimSpace(name) == "" {
			name = "unknown.xlsx"
		}
		candidate := name
		for n := 2; seen[candidate]; n++ {
			candidate = suffixed(name, n)
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}

func suffixed(name string, n int) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return fmt.Sprintf("%s (%d)", name, n)
	}
	return fmt.Sprintf("%s (%d)%s", name[:dot], n, name[dot:])
}

func batchID(names []string, sources []Source) string {
	h := sha256.New()
	for i, src := range sources {
		sum := sha256.Sum256(src.Data)
		fmt.Fprintf(h, "%s\x00%x\x00", names[i], sum)
	}
	return uuid.NewSHA1(batchNamespace, h.Sum(nil)).String()
}

// UploadFile is one entry of an upload payload. Data is base64, optionally
// as a data URL.
type UploadFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// UploadPayload is the JSON body accepted by ParseUploadPayload.
type UploadPayload struct {
	Files []UploadFile `json:"files"`
}

// ParseUploadPayload decodes {"files":[{"name","data"}]} and parses the
// files as one batch. Entries whose data is not valid base64 become ERROR
// results; only a malformed envelope is returned as an error.
func ParseUploadPayload(ctx context.Context, body []byte, opts Options) (*models.BatchResult, error) {
	var payload UploadPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode upload payload: %w", err)
	}
	if len(payload.Files) == 0 {
		return nil, ErrNoFiles
	}
	sources := make([]Source, len(payload.Files))
	for i, f := range payload.Files {
		data, err := loader.DecodeBase64(f.Data)
		sources[i] = Source{Name: f.Name, Data: data, decodeErr: err}
	}
	return ParseBatch(ctx, sources, opts), nil
}
