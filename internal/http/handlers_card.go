package http

import (
	"net/http"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.svc.ListCards(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, toCardView(c))
	}
	s.writeJSON(w, r, http.StatusOK, struct {
		Cards []cardView `json:"cards"`
	}{Cards: views})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var payload cardPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	created, err := s.svc.CreateCard(r.Context(), sanitizeInput(payload.Name))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusCreated, toCardView(created))
}

func (s *Server) handleRenameCard(w http.ResponseWriter, r *http.Request) {
	var payload cardPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	renamed, err := s.svc.RenameCard(r.Context(), r.PathValue("id"), sanitizeInput(payload.Name))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusOK, toCardView(renamed))
}

// handleDeleteCard removes the card; transactions that referenced it keep
// existing with their card reference cleared, so report card buckets shift
// to the fallback label.
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCard(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusNoContent, nil)
}
