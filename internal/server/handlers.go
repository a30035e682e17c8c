package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/ai"
	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/store"
)

// maxAskBody caps the POST /api/ask payload.
const maxAskBody = 64 << 10

type infoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type chapterResponse struct {
	Book    string        `json:"book"`
	Chapter int           `json:"chapter"`
	Verses  []store.Verse `json:"verses"`
}

type askRequest struct {
	Question string `json:"question"`
	UID      string `json:"uid,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, infoResponse{Name: "biblewing", Version: s.version})
}

func (s *Server) handleGetVerse(w http.ResponseWriter, r *http.Request) {
	result, err := s.study.Verse(r.Context(), r.PathValue("uid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.study.Links(r.Context(), r.PathValue("uid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, links)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.study.Note(r.Context(), r.PathValue("uid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(note))
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(r.PathValue("chapter"))
	if err != nil {
		writeAPIJSON(w, http.StatusBadRequest, errorResponse{Error: "chapter must be a number"})
		return
	}
	book := app.NormalizeBook(r.PathValue("book"))
	verses, err := s.study.Chapter(r.Context(), book, chapter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(verses) == 0 {
		writeAPIJSON(w, http.StatusNotFound, errorResponse{Error: "chapter not found"})
		return
	}
	writeAPIJSON(w, http.StatusOK, chapterResponse{Book: book, Chapter: chapter, Verses: verses})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.study.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBody))
	if err := dec.Decode(&req); err != nil {
		writeAPIJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeAPIJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}
	result, err := s.study.Ask(r.Context(), req.Question, req.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

// statusFor maps a study error onto an HTTP status. Anything not recognised
// is an input problem.
func statusFor(err error) int {
	var (
		backend  *store.BackendError
		cfgErr   *ai.ConfigurationError
		upstream *ai.UpstreamAPIError
	)
	switch {
	case errors.Is(err, app.ErrVerseNotFound):
		return http.StatusNotFound
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &backend), errors.Is(err, store.ErrNotConnected):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		msg = "internal error"
	}
	writeAPIJSON(w, status, errorResponse{Error: msg})
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("encode response", "error", err)
	}
}
