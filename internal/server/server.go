// Package server exposes the parser over HTTP for the upload front end.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rutishh0/PowerBI/pkg/sheetlink"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/output"
)

// Server handles parse and upload requests.
type Server struct {
	opts           sheetlink.Options
	maxUploadBytes int64
	log            *slog.Logger
}

// New returns a Server. Request bodies larger than maxUploadBytes are
// rejected with 413.
func New(opts sheetlink.Options, maxUploadBytes int64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, maxUploadBytes: maxUploadBytes, log: logger}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/parse", s.handleParse).Methods("POST")
	router.HandleFunc("/api/upload", s.handleUpload).Methods("POST")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.Use(s.logRequests)
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

// handleParse parses the multipart field "file". ?format=toon returns TOON
// text instead of JSON.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile("file")
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	res := sheetlink.ParseReader(f, fh.Filename, s.opts)
	if r.URL.Query().Get("format") == "toon" {
		text, err := output.ToTOON(res)
		if err != nil {
			s.respondWithError(w, http.StatusInternalServerError, "Failed to encode result")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, text)
		return
	}
	s.writeJSON(w, res)
}

// handleUpload parses a batch sent either as {"files":[{"name","data"}]}
// JSON or as multipart "files" fields.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.handleMultipartUpload(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.formError(w, err)
		return
	}
	batch, err := sheetlink.ParseUploadPayload(r.Context(), body, s.opts)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, batch)
}

func (s *Server) handleMultipartUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	sources := make([]sheetlink.Source, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Failed to open file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Failed to read file: "+fh.Filename)
			return
		}
		sources = append(sources, sheetlink.Source{Name: fh.Filename, Data: data})
	}
	s.writeJSON(w, sheetlink.ParseBatch(r.Context(), sources, s.opts))
}

func (s *Server) formError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.respondWithError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
		return
	}
	s.respondWithError(w, http.StatusBadRequest, "Failed to read upload")
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	data, err := output.ToJSON(v, false)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to encode result")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) respondWithError(w http.ResponseWriter, status int, errMsg string) {
	s.log.Warn("request failed", "status", status, "error", errMsg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   errMsg,
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
