package http

import (
	"net/http"
)

type settingView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, err := s.svc.Setting(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, settingView{Key: key, Value: value})
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	var payload settingPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}

	key := r.PathValue("key")
	if err := s.svc.PutSetting(r.Context(), key, payload.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, settingView{Key: key, Value: payload.Value})
}
