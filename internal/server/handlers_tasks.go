package server

import (
	"net/http"

	"lnr/internal/api"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	responses, err := s.service.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req api.TaskCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.service.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req api.TaskUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.service.Update(r.Context(), req.ID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.URL.Query().Get("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.Get(r.Context(), r.PathValue("task_id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTaskByTaskID(w http.ResponseWriter, r *http.Request) {
	var req api.TaskUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.service.UpdateByTaskID(r.Context(), r.PathValue("task_id"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}
