package database

import (
	"context"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// Backend is an open connection to one of the supported stores. It is owned
// by a ConnectionCache; handlers only borrow it.
type Backend interface {
	ContactMessages() ContactMessageRepository
	Projects() ProjectRepository
	Ping(ctx context.Context) error
	// Migrate creates the indexes or tables the repositories rely on.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}

type ContactMessageRepository interface {
	// Add stores msg and returns its generated identifier. msg.ID and the
	// timestamps are filled in.
	Add(ctx context.Context, msg *models.ContactMessage) (string, error)
}

type ProjectRepository interface {
	// FindAll returns every project, newest first.
	FindAll(ctx context.Context) ([]models.Project, error)
	// Add stores project and returns its generated identifier.
	Add(ctx context.Context, project *models.Project) (string, error)
	// Update applies patch to the project with the given id. It returns an
	// errs.ErrNotFound error when no such project exists.
	Update(ctx context.Context, id string, patch models.ProjectPatch) error
}
