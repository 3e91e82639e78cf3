package server

import (
	"net/http"

	"lnr/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.StoreInfo(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := api.InfoResponse{
		Version:       s.options.Version,
		Driver:        s.options.Driver,
		SchemaVersion: info.SchemaVersion,
		TaskCounts:    info.TaskCounts,
		TotalTasks:    info.TotalTasks,
		MemberCount:   info.MemberCount,
		Interpreter:   interpreterName(s.options.Interpreter),
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.service.ListMembers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, members)
}

func interpreterName(interpreter any) string {
	switch v := interpreter.(type) {
	case nil:
		return "none"
	case interface{ Model() string }:
		return v.Model()
	default:
		return "custom"
	}
}
