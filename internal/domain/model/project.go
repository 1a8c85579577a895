package model

import (
	"time"
)

type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
)

func (s ProjectStatus) Valid() bool {
	return s == StatusPlanning || s == StatusInProgress || s == StatusCompleted
}

// ProjectURLs holds the optional deployment and repository links.
type ProjectURLs struct {
	Frontend       string `json:"frontend,omitempty"`
	Backend        string `json:"backend,omitempty"`
	GithubFrontend string `json:"github_frontend,omitempty"`
	GithubBackend  string `json:"github_backend,omitempty"`
}

// Project has no owner field; mutations are gated purely by role.
type Project struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	ShortDescription string        `json:"short_description"`
	LongDescription  string        `json:"long_description"` // markdown
	TechStacks       []string      `json:"tech_stacks"`
	URLs             ProjectURLs   `json:"urls"`
	BannerImage      string        `json:"banner_image"`
	Status           ProjectStatus `json:"status"`
	Featured         bool          `json:"featured"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
