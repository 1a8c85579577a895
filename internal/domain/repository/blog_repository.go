package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"

	"github.com/lib/pq"
)

// BlogFilter narrows List results. Zero values mean "no filter"; Published
// is a tri-state so unpublished drafts stay reachable for their authors.
type BlogFilter struct {
	AuthorID  string
	Category  string
	Search    string
	Published *bool
	Limit     int
	Offset    int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]model.Blog, int, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
}

type pgBlogRepository struct {
	db *sql.DB
}

func NewPgBlogRepository(db *sql.DB) BlogRepository {
	return &pgBlogRepository{db: db}
}

const blogColumns = `b.id, b.title, b.slug, b.content, b.author_id, b.categories,
	b.banner_image, b.is_published, b.created_at, b.updated_at, u.name, u.email`

func scanBlog(scanner interface{ Scan(...any) error }) (*model.Blog, error) {
	blog := &model.Blog{}
	err := scanner.Scan(
		&blog.ID, &blog.Title, &blog.Slug, &blog.Content, &blog.AuthorID,
		pq.Array(&blog.Categories), &blog.BannerImage, &blog.IsPublished,
		&blog.CreatedAt, &blog.UpdatedAt, &blog.AuthorName, &blog.AuthorEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (r *pgBlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `INSERT INTO blogs (id, title, slug, content, author_id, categories, banner_image, is_published)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		blog.ID, blog.Title, blog.Slug, blog.Content, blog.AuthorID,
		pq.Array(blog.Categories), blog.BannerImage, blog.IsPublished,
	).Scan(&blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgBlogRepository.Create: %w", err)
	}
	return nil
}

func (r *pgBlogRepository) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + `
	          FROM blogs b JOIN users u ON u.id = b.author_id
	          WHERE b.id = $1`
	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgBlogRepository.FindByID: %w", err)
	}
	return blog, nil
}

func buildBlogWhere(filter BlogFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.AuthorID != "" {
		conditions = append(conditions, "b.author_id = "+arg(filter.AuthorID))
	}
	if filter.Category != "" {
		conditions = append(conditions, arg(filter.Category)+" = ANY(b.categories)")
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conditions = append(conditions, "(b.title ILIKE "+p+" OR b.content ILIKE "+p+")")
	}
	if filter.Published != nil {
		conditions = append(conditions, "b.is_published = "+arg(*filter.Published))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgBlogRepository) List(ctx context.Context, filter BlogFilter) ([]model.Blog, int, error) {
	where, args := buildBlogWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM blogs b` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgBlogRepository.List count: %w", err)
	}

	query := `SELECT ` + blogColumns + `
	          FROM blogs b JOIN users u ON u.id = b.author_id` + where +
		` ORDER BY b.created_at DESC
	          LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgBlogRepository.List: %w", err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgBlogRepository.List scan: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	return blogs, total, rows.Err()
}

func (r *pgBlogRepository) Update(ctx context.Context, blog *model.Blog) error {
	// author_id and slug are deliberately absent: both are immutable.
	query := `UPDATE blogs
	          SET title = $2, content = $3, categories = $4, banner_image = $5, is_published = $6, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		blog.ID, blog.Title, blog.Content, pq.Array(blog.Categories), blog.BannerImage, blog.IsPublished,
	).Scan(&blog.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgBlogRepository.Update: %w", err)
	}
	return nil
}

func (r *pgBlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgBlogRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgBlogRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
