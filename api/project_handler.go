package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	connections ConnectionSource
}

func newProjectHandler(connections ConnectionSource, production bool) projectHandler {
	logger := handlerLogger("projectHandler")

	return projectHandler{
		responder:   NewResponder(logger, production),
		logger:      logger,
		connections: connections,
	}
}

// getAllProjects retrieves all projects, newest first
// @Summary Get all projects
// @Description Retrieves all projects from the database, newest first
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectListResponse "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend, err := acquireBackend(r.Context(), h.connections)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := backend.Projects().FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, ProjectListResponse{OK: true, Projects: projects})
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project in the database
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} CreatedResponse "Identifier of the created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := parseCreateProjectRequest(decodeBody(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		backend, err := acquireBackend(r.Context(), h.connections)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := backend.Projects().Add(r.Context(), &project)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().
			Str("projectId", id).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Project created")

		h.responder.WriteJSON(w, http.StatusCreated, CreatedResponse{OK: true, ID: id})
	}
}

// updateProject applies a partial update to a project
// @Summary Update project
// @Description Updates the whitelisted fields of a project; other keys are ignored
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OKResponse "Project updated"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing id or no valid fields"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /api/projects [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, patch, err := parseUpdateProjectRequest(decodeBody(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		backend, err := acquireBackend(r.Context(), h.connections)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := backend.Projects().Update(r.Context(), id, patch); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.logger.Info().
			Str("projectId", id).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Project updated")

		h.responder.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
	}
}
