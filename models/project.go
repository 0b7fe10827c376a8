package models

import "time"

// Project is a portfolio entry as clients see it.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image"`
	GithubURL   string    `json:"githubUrl"`
	LiveURL     string    `json:"liveUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProject fills the defaults for optional fields.
func NewProject(title, description string, tags []string, image, githubURL, liveURL string) Project {
	if tags == nil {
		tags = []string{}
	}
	return Project{
		Title:       title,
		Description: description,
		Tags:        tags,
		Image:       image,
		GithubURL:   githubURL,
		LiveURL:     liveURL,
	}
}

// ProjectPatch lists every field an update may touch. A nil field is left
// unchanged. Anything not declared here cannot be updated.
type ProjectPatch struct {
	Title       *string
	Description *string
	Tags        *[]string
	Image       *string
	GithubURL   *string
	LiveURL     *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Tags == nil &&
		p.Image == nil &&
		p.GithubURL == nil &&
		p.LiveURL == nil
}

// Fields returns the set fields keyed by their stored (camelCase) name.
func (p ProjectPatch) Fields() map[string]any {
	fields := make(map[string]any, 6)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		fields["tags"] = tags
	}
	if p.Image != nil {
		fields["image"] = *p.Image
	}
	if p.GithubURL != nil {
		fields["githubUrl"] = *p.GithubURL
	}
	if p.LiveURL != nil {
		fields["liveUrl"] = *p.LiveURL
	}
	return fields
}
