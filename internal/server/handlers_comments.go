package server

import (
	"net/http"

	"lnr/internal/api"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := requiredQuery(r, "task_id", msgCommentTaskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	comments, err := s.service.ListComments(r.Context(), taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req api.CommentCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	comment, err := s.service.CreateComment(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteComment(r.Context(), r.URL.Query().Get("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}
