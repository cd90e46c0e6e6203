package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/termquiz/internal/quizgen"
)

type listResponse struct {
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Questions []quizgen.Question `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"questions": len(s.questions),
	})
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	page := []quizgen.Question{}
	if offset < len(s.questions) {
		page = s.questions[offset:min(offset+limit, len(s.questions))]
	}

	writeJSON(w, http.StatusOK, listResponse{
		Total:     len(s.questions),
		Limit:     limit,
		Offset:    offset,
		Questions: page,
	})
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	i, ok := s.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, s.questions[i])
}

func (s *Server) randomQuestion(w http.ResponseWriter, r *http.Request) {
	if len(s.questions) == 0 {
		writeError(w, http.StatusNotFound, "dataset is empty")
		return
	}
	s.mu.Lock()
	i := s.rng.IntN(len(s.questions))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.questions[i])
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
