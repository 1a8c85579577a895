package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type BlogService struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

type CreateBlogRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Categories  []string `json:"categories"`
	BannerImage string   `json:"banner_image"`
	IsPublished bool     `json:"is_published"`
}

type UpdateBlogRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
	BannerImage *string   `json:"banner_image,omitempty"`
	IsPublished *bool     `json:"is_published,omitempty"`
}

type BlogListQuery struct {
	Page      int
	Limit     int
	Category  string
	Search    string
	Published *bool
}

func (q *BlogListQuery) normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
}

func (s *BlogService) CreateBlog(ctx context.Context, identity model.Identity, req CreateBlogRequest) (*model.Blog, error) {
	if err := validateRequired(
		field{"title", req.Title},
		field{"content", req.Content},
		field{"bannerImage", req.BannerImage},
	); err != nil {
		return nil, err
	}
	if !validateURL(req.BannerImage) {
		return nil, common.NewError(common.ErrValidation, "Invalid banner image URL")
	}

	blog := &model.Blog{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug.Make(req.Title),
		Content:     strings.TrimSpace(req.Content),
		AuthorID:    identity.UserID,
		Categories:  trimAll(req.Categories),
		BannerImage: strings.TrimSpace(req.BannerImage),
		IsPublished: req.IsPublished,
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	blog.AuthorName = identity.Name
	blog.AuthorEmail = identity.Email
	return blog, nil
}

func (s *BlogService) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid blog ID format")
	}
	blog, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found")
		}
		return nil, fmt.Errorf("failed to retrieve blog: %w", err)
	}
	return blog, nil
}

func (s *BlogService) ListBlogs(ctx context.Context, query BlogListQuery) ([]model.Blog, *common.Pagination, error) {
	query.normalize()
	blogs, total, err := s.blogRepo.List(ctx, repository.BlogFilter{
		Category:  query.Category,
		Search:    query.Search,
		Published: query.Published,
		Limit:     query.Limit,
		Offset:    (query.Page - 1) * query.Limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve blogs: %w", err)
	}
	return blogs, common.NewPagination(query.Page, query.Limit, total), nil
}

func (s *BlogService) ListPublishedBlogs(ctx context.Context, query BlogListQuery) ([]model.Blog, *common.Pagination, error) {
	published := true
	query.Published = &published
	return s.ListBlogs(ctx, query)
}

func (s *BlogService) ListBlogsByAuthor(ctx context.Context, authorID string, query BlogListQuery) ([]model.Blog, *common.Pagination, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, nil, common.NewError(common.ErrValidation, "Invalid author ID format")
	}
	query.normalize()
	blogs, total, err := s.blogRepo.List(ctx, repository.BlogFilter{
		AuthorID:  authorID,
		Category:  query.Category,
		Search:    query.Search,
		Published: query.Published,
		Limit:     query.Limit,
		Offset:    (query.Page - 1) * query.Limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve blogs by author: %w", err)
	}
	return blogs, common.NewPagination(query.Page, query.Limit, total), nil
}

// UpdateBlog verifies existence before permission: a caller probing a
// missing id always sees 404, never a permission error.
func (s *BlogService) UpdateBlog(ctx context.Context, identity model.Identity, id string, req UpdateBlogRequest) (*model.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid blog ID format")
	}
	if req.BannerImage != nil && !validateURL(*req.BannerImage) {
		return nil, common.NewError(common.ErrValidation, "Invalid banner image URL")
	}

	blog, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found")
		}
		return nil, fmt.Errorf("failed to retrieve blog: %w", err)
	}

	if !canModifyBlog(identity, blog) {
		return nil, common.NewError(common.ErrPermissionDenied, "You don't have permission to update this blog")
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		blog.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
		blog.Content = strings.TrimSpace(*req.Content)
	}
	if req.Categories != nil {
		blog.Categories = trimAll(*req.Categories)
	}
	if req.BannerImage != nil {
		blog.BannerImage = strings.TrimSpace(*req.BannerImage)
	}
	if req.IsPublished != nil {
		blog.IsPublished = *req.IsPublished
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found")
		}
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	return blog, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, identity model.Identity, id string) (*model.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrValidation, "Invalid blog ID format")
	}

	blog, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found")
		}
		return nil, fmt.Errorf("failed to retrieve blog: %w", err)
	}

	if !canModifyBlog(identity, blog) {
		return nil, common.NewError(common.ErrPermissionDenied, "You don't have permission to delete this blog")
	}

	if err := s.blogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found")
		}
		return nil, fmt.Errorf("failed to delete blog: %w", err)
	}
	return blog, nil
}

// canModifyBlog is the per-resource policy: owners manage any blog,
// regular users only their own.
func canModifyBlog(identity model.Identity, blog *model.Blog) bool {
	return identity.Role == model.RoleOwner || identity.UserID == blog.AuthorID
}
