package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/domain/repository"
)

// In-memory repositories. Copies are stored and returned so services
// clearing the hash on a returned user cannot corrupt the "database".

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) OwnerExists(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == model.RoleOwner {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memBlogRepo struct {
	mu    sync.Mutex
	blogs map[string]model.Blog
}

func newMemBlogRepo() *memBlogRepo {
	return &memBlogRepo{blogs: map[string]model.Blog{}}
}

func (r *memBlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *memBlogRepo) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *memBlogRepo) List(ctx context.Context, filter repository.BlogFilter) ([]model.Blog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []model.Blog{}
	for _, b := range r.blogs {
		if filter.AuthorID != "" && b.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Published != nil && b.IsPublished != *filter.Published {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if filter.Offset >= len(matched) {
		return []model.Blog{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *memBlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[blog.ID]; !ok {
		return common.ErrNotFound
	}
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *memBlogRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]model.Project

	featuredCalls int
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]model.Project{}}
}

func (r *memProjectRepo) Create(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *memProjectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]model.Project, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []model.Project{}
	for _, p := range r.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if filter.Offset >= len(matched) {
		return []model.Project{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *memProjectRepo) ListFeatured(ctx context.Context, limit int) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.featuredCalls++
	matched := []model.Project{}
	for _, p := range r.projects {
		if p.Featured {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return common.ErrNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}
