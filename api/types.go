package api

import (
	"github.com/rpupo63/portfolio-site-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	contactHandler contactHandler
	projectHandler projectHandler
	chatHandler    chatHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	OK      bool   `json:"ok" example:"false"`
	Error   string `json:"error" example:"title and description are required"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
	Stack   string `json:"stack,omitempty"`
}

// OKResponse is the body of a successful call that returns nothing else.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// CreatedResponse carries the identifier of a newly stored document.
type CreatedResponse struct {
	OK bool   `json:"ok" example:"true"`
	ID string `json:"id" example:"665f1c2e9b1e8a3d4c5b6a79"`
}

type ProjectListResponse struct {
	OK       bool             `json:"ok" example:"true"`
	Projects []models.Project `json:"projects"`
}

type ChatResponse struct {
	OK    bool   `json:"ok" example:"true"`
	Reply string `json:"reply" example:"Hello! How can I help you today?"`
}

type HealthResponse struct {
	OK     bool   `json:"ok" example:"true"`
	Status string `json:"status" example:"connected"`
}
