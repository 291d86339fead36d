package http

import (
	"net/http"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	txs, err := s.svc.Transactions(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := s.svc.CountTransactions(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, struct {
		Transactions []transactionView `json:"transactions"`
		Count        int               `json:"count"`
	}{Transactions: toTransactionViews(txs), Count: count})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toTransactionView(tx))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}
	tx, err := payload.toTransaction()
	if err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	created, err := s.svc.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusCreated, toTransactionView(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}
	tx, err := payload.toTransaction()
	if err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}
	tx.ID = r.PathValue("id")

	updated, err := s.svc.UpdateTransaction(r.Context(), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusOK, toTransactionView(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.svc.DeleteAllTransactions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flushReports()
	s.writeJSON(w, r, http.StatusOK, struct {
		Deleted int `json:"deleted"`
	}{Deleted: deleted})
}
