// Package server exposes the document pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/services"
)

// Server wires the ingestion and retrieval services to chi routes.
type Server struct {
	ingester       *services.Ingester
	library        *services.Library
	maxUploadBytes int64
}

func New(ingester *services.Ingester, library *services.Library, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &Server{ingester: ingester, library: library, maxUploadBytes: maxUploadBytes}
}

// Router builds the HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/search", s.handleSearchAll)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/blob", s.handleBlob)
			r.Get("/pages/{page}", s.handlePage)
			r.Get("/sentences", s.handleSentences)
			r.Get("/top-words", s.handleTopWords)
			r.Get("/search", s.handleSearch)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "docvault"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.library.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, docerr.Wrap(docerr.KindMalformedDocument, "server.handleUpload", "failed to parse multipart upload", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, docerr.Wrap(docerr.KindMalformedDocument, "server.handleUpload", "multipart field 'file' is required", err))
		return
	}
	defer file.Close()

	id, err := s.ingester.Ingest(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.library.GetMetadata(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.ingester.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	data, doc, err := s.library.DownloadBlob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	w.Write(data)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, docerr.Newf(docerr.KindPageOutOfRange, "server.handlePage", "invalid page number %q", chi.URLParam(r, "page")))
		return
	}
	img, doc, err := s.library.DownloadPage(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	stem := strings.TrimSuffix(doc.Name, ".pdf")
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="`+stem+"_p"+strconv.Itoa(page)+`.jpg"`)
	w.Write(img)
}

func (s *Server) handleSentences(w http.ResponseWriter, r *http.Request) {
	rec, err := s.library.GetSentences(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleTopWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.library.TopWords(r.Context(), chi.URLParam(r, "id"), 5)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top-words": words})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.library.Search(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.library.SearchAll(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body.", "error", err)
	}
}

// writeError maps the error taxonomy to the response contract: a status
// code per kind and a structured envelope the client can switch on.
func writeError(w http.ResponseWriter, err error) {
	status := docerr.HTTPStatus(err)
	kind := docerr.KindOf(err)
	message := err.Error()

	var e *docerr.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed.", "kind", string(kind), "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"kind": string(kind), "message": message},
	})
}
