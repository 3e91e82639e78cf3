package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check, info and metrics.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/info", s.handleInfo)
	if s.options.Metrics != nil {
		mux.Handle("GET /metrics", s.options.Metrics)
	}

	// Tasks collection, keyed by opaque id.
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/tasks", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks", s.handleDeleteTask)

	// Single task, keyed by human-facing id.
	mux.HandleFunc("GET /api/tasks/{task_id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{task_id}", s.handleUpdateTaskByTaskID)

	// Comments.
	mux.HandleFunc("GET /api/comments", s.handleListComments)
	mux.HandleFunc("POST /api/comments", s.handleCreateComment)
	mux.HandleFunc("DELETE /api/comments", s.handleDeleteComment)

	// Team roster.
	mux.HandleFunc("GET /api/team-members", s.handleListMembers)

	// Command bar.
	mux.HandleFunc("POST /api/parse-command", s.handleParseCommand)

	// Browser UI.
	mux.HandleFunc("GET /{$}", s.handleUIIndex)
	mux.Handle("GET /ui/", s.uiAssetHandler())

	return mux
}
