package http

import (
	"net/http"

	"ledger/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, toCategoryView(c))
	}
	s.writeJSON(w, r, http.StatusOK, struct {
		Categories []categoryView `json:"categories"`
	}{Categories: views})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	created, err := s.svc.CreateCategory(r.Context(), sanitizeInput(payload.Name), core.TransactionType(payload.Type))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusCreated, toCategoryView(created))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusNoContent, nil)
}
