package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/charcache/internal/domain/model"
)

// CharactersHandler serves listings and distinct values from the local store.
type CharactersHandler struct {
	deps Dependencies
}

// NewCharactersHandler creates a new characters handler.
func NewCharactersHandler(deps Dependencies) *CharactersHandler {
	return &CharactersHandler{deps: deps}
}

type countResponse struct {
	Count int64 `json:"count"`
}

// HandleList handles GET /characters?name=&status=&species=&gender=&location=.
// Every parameter is optional; with none the whole store is returned.
func (h *CharactersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.QueryOptions{
		NameContains: strings.TrimSpace(q.Get("name")),
		Status:       strings.TrimSpace(q.Get("status")),
		Species:      strings.TrimSpace(q.Get("species")),
		Gender:       strings.TrimSpace(q.Get("gender")),
		Location:     strings.TrimSpace(q.Get("location")),
	}
	chars, err := h.deps.Filter(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%w: %w", ErrQuery, err))
		return
	}
	writeJSON(w, http.StatusOK, chars)
}

// HandleValues handles GET /characters/values/{field}.
func (h *CharactersHandler) HandleValues(w http.ResponseWriter, r *http.Request) {
	field, err := model.ParseField(r.PathValue("field"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	values, err := h.deps.DistinctValues(r.Context(), field)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%w: %w", ErrQuery, err))
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// HandleCount handles GET /characters/count.
func (h *CharactersHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%w: %w", ErrQuery, err))
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}
