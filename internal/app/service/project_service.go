package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultFeaturedLimit = 6
	featuredCacheKey     = "featured_projects"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
	rdb         *redis.Client
	cacheTTL    time.Duration
}

// NewProjectService wires the project store and the redis client backing
// the featured-projects cache. A nil redis client disables caching.
func NewProjectService(projectRepo repository.ProjectRepository, rdb *redis.Client, cacheTTL time.Duration) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, rdb: rdb, cacheTTL: cacheTTL}
}

type CreateProjectRequest struct {
	Title            string              `json:"title"`
	ShortDescription string              `json:"short_description"`
	LongDescription  string              `json:"long_description"`
	TechStacks       []string            `json:"tech_stacks"`
	URLs             model.ProjectURLs   `json:"urls"`
	BannerImage      string              `json:"banner_image"`
	Status           model.ProjectStatus `json:"status,omitempty"`
	Featured         bool                `json:"featured"`
}

type UpdateProjectRequest struct {
	Title            *string              `json:"title,omitempty"`
	ShortDescription *string              `json:"short_description,omitempty"`
	LongDescription  *string              `json:"long_description,omitempty"`
	TechStacks       *[]string            `json:"tech_stacks,omitempty"`
	URLs             *model.ProjectURLs   `json:"urls,omitempty"`
	BannerImage      *string              `json:"banner_image,omitempty"`
	Status           *model.ProjectStatus `json:"status,omitempty"`
	Featured         *bool                `json:"featured,omitempty"`
}

type ProjectListQuery struct {
	Page     int
	Limit    int
	Status   model.ProjectStatus
	Tech     string
	Search   string
	Featured *bool
}

func (q *ProjectListQuery) normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
}

func validateProjectURLs(urls model.ProjectURLs) error {
	checks := []struct {
		name  string
		value string
	}{
		{"frontend", urls.Frontend},
		{"backend", urls.Backend},
		{"githubFrontend", urls.GithubFrontend},
		{"githubBackend", urls.GithubBackend},
	}
	for _, c := range checks {
		if c.value != "" && !validateURL(c.value) {
			return common.NewError(common.ErrValidation, "Invalid %s URL", c.name)
		}
	}
	return nil
}

func (s *ProjectService) AddProject(ctx context.Context, req CreateProjectRequest) (*model.Project, error) {
	if err := validateRequired(
		field{"title", req.Title},
		field{"shortDescription", req.ShortDescription},
		field{"longDescription", req.LongDescription},
		field{"bannerImage", req.BannerImage},
	); err != nil {
		return nil, err
	}
	if !validateURL(req.BannerImage) {
		return nil, common.NewError(common.ErrValidation, "Invalid banner image URL")
	}
	if err := validateProjectURLs(req.URLs); err != nil {
		return nil, err
	}
	if len(req.ShortDescription) > 200 {
		return nil, common.NewError(common.ErrValidation, "Short description cannot exceed 200 characters")
	}
	status := req.Status
	if status == "" {
		status = model.StatusPlanning
	}
	if !status.Valid() {
		return nil, common.NewError(common.ErrValidation, "Invalid status. Must be 'Planning', 'In Progress' or 'Completed'")
	}

	project := &model.Project{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(req.Title),
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		LongDescription:  strings.TrimSpace(req.LongDescription),
		TechStacks:       trimAll(req.TechStacks),
		URLs:             req.URLs,
		BannerImage:      strings.TrimSpace(req.BannerImage),
		Status:           status,
		Featured:         req.Featured,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.invalidateFeaturedCache(ctx)
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid project ID format")
	}
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Project not found")
		}
		return nil, fmt.Errorf("failed to retrieve project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, query ProjectListQuery) ([]model.Project, *common.Pagination, error) {
	query.normalize()
	if query.Status != "" && !query.Status.Valid() {
		return nil, nil, common.NewError(common.ErrValidation, "Invalid status. Must be 'Planning', 'In Progress' or 'Completed'")
	}
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		Status:   query.Status,
		Tech:     query.Tech,
		Search:   query.Search,
		Featured: query.Featured,
		Limit:    query.Limit,
		Offset:   (query.Page - 1) * query.Limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	return projects, common.NewPagination(query.Page, query.Limit, total), nil
}

// GetFeaturedProjects serves the default-sized listing from redis when
// possible; any mutation drops the cached copy.
func (s *ProjectService) GetFeaturedProjects(ctx context.Context, limit int) ([]model.Project, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	useCache := s.rdb != nil && limit == DefaultFeaturedLimit
	if useCache {
		raw, err := s.rdb.Get(ctx, featuredCacheKey).Bytes()
		if err == nil {
			var cached []model.Project
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: featured cache read failed: %v", err)
		}
	}

	projects, err := s.projectRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve featured projects: %w", err)
	}

	if useCache {
		if raw, err := json.Marshal(projects); err == nil {
			if err := s.rdb.Set(ctx, featuredCacheKey, raw, s.cacheTTL).Err(); err != nil {
				log.Printf("WARN: featured cache write failed: %v", err)
			}
		}
	}
	return projects, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*model.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid project ID format")
	}
	if req.BannerImage != nil && !validateURL(*req.BannerImage) {
		return nil, common.NewError(common.ErrValidation, "Invalid banner image URL")
	}
	if req.URLs != nil {
		if err := validateProjectURLs(*req.URLs); err != nil {
			return nil, err
		}
	}
	if req.ShortDescription != nil && len(*req.ShortDescription) > 200 {
		return nil, common.NewError(common.ErrValidation, "Short description cannot exceed 200 characters")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, common.NewError(common.ErrValidation, "Invalid status. Must be 'Planning', 'In Progress' or 'Completed'")
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Project not found")
		}
		return nil, fmt.Errorf("failed to retrieve project: %w", err)
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.ShortDescription != nil && strings.TrimSpace(*req.ShortDescription) != "" {
		project.ShortDescription = strings.TrimSpace(*req.ShortDescription)
	}
	if req.LongDescription != nil && strings.TrimSpace(*req.LongDescription) != "" {
		project.LongDescription = strings.TrimSpace(*req.LongDescription)
	}
	if req.TechStacks != nil {
		project.TechStacks = trimAll(*req.TechStacks)
	}
	if req.URLs != nil {
		project.URLs = *req.URLs
	}
	if req.BannerImage != nil {
		project.BannerImage = strings.TrimSpace(*req.BannerImage)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Project not found")
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	s.invalidateFeaturedCache(ctx)
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) (*model.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid project ID format")
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Project not found")
		}
		return nil, fmt.Errorf("failed to retrieve project: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Project not found")
		}
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	s.invalidateFeaturedCache(ctx)
	return project, nil
}

func (s *ProjectService) invalidateFeaturedCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, featuredCacheKey).Err(); err != nil {
		log.Printf("WARN: featured cache invalidation failed: %v", err)
	}
}
