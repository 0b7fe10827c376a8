package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type contactMessageRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;not null"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null"`
	Subject   string    `gorm:"type:text;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (contactMessageRow) TableName() string { return "contact_messages" }

type projectRow struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `gorm:"type:text;not null"`
	Description string                      `gorm:"type:text;not null"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Image       string                      `gorm:"type:text;not null"`
	GithubURL   string                      `gorm:"column:github_url;type:text;not null"`
	LiveURL     string                      `gorm:"column:live_url;type:text;not null"`
	CreatedAt   time.Time                   `gorm:"not null;index"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

func (projectRow) TableName() string { return "projects" }

func (r projectRow) toModel() models.Project {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return models.Project{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		Tags:        tags,
		Image:       r.Image,
		GithubURL:   r.GithubURL,
		LiveURL:     r.LiveURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// projectColumns maps a patch onto column names. Every updatable field is
// spelled out here; there is no generic key copy.
func projectColumns(patch models.ProjectPatch) map[string]any {
	columns := map[string]any{}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		columns["tags"] = datatypes.JSONSlice[string](tags)
	}
	if patch.Image != nil {
		columns["image"] = *patch.Image
	}
	if patch.GithubURL != nil {
		columns["github_url"] = *patch.GithubURL
	}
	if patch.LiveURL != nil {
		columns["live_url"] = *patch.LiveURL
	}
	return columns
}

type PostgresContactMessageRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresContactMessageRepo(db *gorm.DB) *PostgresContactMessageRepo {
	return &PostgresContactMessageRepo{db: db, now: time.Now}
}

// Add inserts a new contact message
func (r *PostgresContactMessageRepo) Add(ctx context.Context, msg *models.ContactMessage) (id string, err error) {
	defer metrics.ObserveDB("insert_contact_message", postgresBackendName, time.Now(), &err)

	now := r.now().UTC()
	row := contactMessageRow{
		ID:        uuid.New(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}

	msg.ID = row.ID.String()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return msg.ID, nil
}

type PostgresProjectRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresProjectRepo(db *gorm.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db, now: time.Now}
}

// FindAll returns all projects from the database, newest first
func (r *PostgresProjectRepo) FindAll(ctx context.Context) (projects []models.Project, err error) {
	defer metrics.ObserveDB("find_projects", postgresBackendName, time.Now(), &err)

	var rows []projectRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	projects = make([]models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toModel())
	}
	return projects, nil
}

// Add inserts a new project into the database
func (r *PostgresProjectRepo) Add(ctx context.Context, project *models.Project) (id string, err error) {
	defer metrics.ObserveDB("insert_project", postgresBackendName, time.Now(), &err)

	now := r.now().UTC()
	tags := project.Tags
	if tags == nil {
		tags = []string{}
	}

	row := projectRow{
		ID:          uuid.New(),
		Title:       project.Title,
		Description: project.Description,
		Tags:        datatypes.JSONSlice[string](tags),
		Image:       project.Image,
		GithubURL:   project.GithubURL,
		LiveURL:     project.LiveURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}

	project.ID = row.ID.String()
	project.Tags = tags
	project.CreatedAt = now
	project.UpdatedAt = now
	return project.ID, nil
}

// Update applies the patched columns to an existing project
func (r *PostgresProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) (err error) {
	defer metrics.ObserveDB("update_project", postgresBackendName, time.Now(), &err)

	columns := projectColumns(patch)
	if len(columns) == 0 {
		return errs.NewEmptyUpdateError()
	}

	projectID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return errs.NewNotFound("Project")
	}

	columns["updated_at"] = r.now().UTC()

	result := r.db.WithContext(ctx).Model(&projectRow{}).Where("id = ?", projectID).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("Project")
	}
	return nil
}
