package server

import (
	"net/http"

	"lnr/internal/api"
)

func (s *Server) handleParseCommand(w http.ResponseWriter, r *http.Request) {
	var req api.CommandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.log().Debug("command request rejected", "error", err)
		s.writeJSON(w, http.StatusBadRequest, unknownCommand(msgCommandRequired))
		return
	}

	resp, status := s.commands.Run(r.Context(), req.Command)
	s.writeJSON(w, status, resp)
}
