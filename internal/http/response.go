package http

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "Response encode failed", "error", err, "url", r.URL.Path)
	}
}

// writeError maps domain and store errors onto HTTP statuses. Validation
// and reference failures come back as 422 with the message in the body;
// anything unexpected is logged and hidden behind a plain 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, services.ErrUnknownSettingKey):
		s.writeJSON(w, r, http.StatusNotFound, errorBody{Error: err.Error()})
	case isUnprocessable(err):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "Request failed", "error", err, "method", r.Method, "url", r.URL.Path)
		s.writeJSON(w, r, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeJSON(w, r, http.StatusBadRequest, errorBody{Error: msg})
}

func isUnprocessable(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidPaymentMethod,
		core.ErrMissingCategory,
		core.ErrMissingCard,
		core.ErrEmptyName,
		core.ErrDetailTooLong,
		services.ErrCategoryNotFound,
		services.ErrCardNotFound,
		services.ErrCategoryTypeMismatch,
		services.ErrTypeImmutable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
