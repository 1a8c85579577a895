package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"

	"github.com/lib/pq"
)

type ProjectFilter struct {
	Status   model.ProjectStatus
	Tech     string
	Search   string
	Featured *bool
	Limit    int
	Offset   int
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, int, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	db *sql.DB
}

func NewPgProjectRepository(db *sql.DB) ProjectRepository {
	return &pgProjectRepository{db: db}
}

const projectColumns = `id, title, short_description, long_description, tech_stacks,
	urls, banner_image, status, featured, created_at, updated_at`

func scanProject(scanner interface{ Scan(...any) error }) (*model.Project, error) {
	project := &model.Project{}
	var urlsRaw []byte
	err := scanner.Scan(
		&project.ID, &project.Title, &project.ShortDescription, &project.LongDescription,
		pq.Array(&project.TechStacks), &urlsRaw, &project.BannerImage,
		&project.Status, &project.Featured, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(urlsRaw) > 0 {
		if err := json.Unmarshal(urlsRaw, &project.URLs); err != nil {
			return nil, err
		}
	}
	return project, nil
}

func (r *pgProjectRepository) Create(ctx context.Context, project *model.Project) error {
	urlsRaw, err := json.Marshal(project.URLs)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Create marshal urls: %w", err)
	}
	query := `INSERT INTO projects (id, title, short_description, long_description, tech_stacks, urls, banner_image, status, featured)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		project.ID, project.Title, project.ShortDescription, project.LongDescription,
		pq.Array(project.TechStacks), urlsRaw, project.BannerImage, project.Status, project.Featured,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgProjectRepository.FindByID: %w", err)
	}
	return project, nil
}

func buildProjectWhere(filter ProjectFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.Tech != "" {
		conditions = append(conditions, arg(filter.Tech)+" = ANY(tech_stacks)")
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conditions = append(conditions, "(title ILIKE "+p+" OR short_description ILIKE "+p+")")
	}
	if filter.Featured != nil {
		conditions = append(conditions, "featured = "+arg(*filter.Featured))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]model.Project, int, error) {
	where, args := buildProjectWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProjectRepository.List count: %w", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		` ORDER BY featured DESC, created_at DESC
	          LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProjectRepository.List: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgProjectRepository.List scan: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, total, rows.Err()
}

func (r *pgProjectRepository) ListFeatured(ctx context.Context, limit int) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
	          WHERE featured = true
	          ORDER BY created_at DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgProjectRepository.ListFeatured: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("pgProjectRepository.ListFeatured scan: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Update(ctx context.Context, project *model.Project) error {
	urlsRaw, err := json.Marshal(project.URLs)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Update marshal urls: %w", err)
	}
	query := `UPDATE projects
	          SET title = $2, short_description = $3, long_description = $4, tech_stacks = $5,
	              urls = $6, banner_image = $7, status = $8, featured = $9, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		project.ID, project.Title, project.ShortDescription, project.LongDescription,
		pq.Array(project.TechStacks), urlsRaw, project.BannerImage, project.Status, project.Featured,
	).Scan(&project.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgProjectRepository.Update: %w", err)
	}
	return nil
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
