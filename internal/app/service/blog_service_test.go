package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proditto/portfolio-api/internal/app/service"
	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"
)

var (
	authorIdentity = model.Identity{
		UserID: uuid.NewString(),
		Name:   "Ann Author",
		Email:  "ann@example.com",
		Role:   model.RoleRegular,
	}
	otherIdentity = model.Identity{
		UserID: uuid.NewString(),
		Name:   "Bob Bystander",
		Email:  "bob@example.com",
		Role:   model.RoleRegular,
	}
	ownerIdentity = model.Identity{
		UserID: uuid.NewString(),
		Name:   "Oli Owner",
		Email:  "owner@example.com",
		Role:   model.RoleOwner,
	}
)

func validCreateBlog() service.CreateBlogRequest {
	return service.CreateBlogRequest{
		Title:       "Shipping My Portfolio",
		Content:     "Notes from the build.",
		Categories:  []string{"go", " web "},
		BannerImage: "https://cdn.example.com/banner.png",
		IsPublished: true,
	}
}

func TestCreateBlog(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())

	blog, err := svc.CreateBlog(context.Background(), authorIdentity, validCreateBlog())
	require.NoError(t, err)
	assert.Equal(t, "shipping-my-portfolio", blog.Slug)
	assert.Equal(t, authorIdentity.UserID, blog.AuthorID)
	assert.Equal(t, []string{"go", "web"}, blog.Categories)

	_, err = uuid.Parse(blog.ID)
	assert.NoError(t, err)
}

func TestCreateBlogValidation(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())

	_, err := svc.CreateBlog(context.Background(), authorIdentity, service.CreateBlogRequest{})
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: title, content, bannerImage", err.Error())

	req := validCreateBlog()
	req.BannerImage = "not a url"
	_, err = svc.CreateBlog(context.Background(), authorIdentity, req)
	require.Error(t, err)
	assert.Equal(t, "Invalid banner image URL", err.Error())
}

func TestBlogModifyPermissions(t *testing.T) {
	newTitle := "Edited"

	tests := []struct {
		name     string
		identity model.Identity
		allowed  bool
	}{
		{"author may edit own blog", authorIdentity, true},
		{"other regular user is denied", otherIdentity, false},
		{"owner may edit any blog", ownerIdentity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewBlogService(newMemBlogRepo())
			blog, err := svc.CreateBlog(context.Background(), authorIdentity, validCreateBlog())
			require.NoError(t, err)

			updated, err := svc.UpdateBlog(context.Background(), tt.identity, blog.ID, service.UpdateBlogRequest{Title: &newTitle})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "Edited", updated.Title)
			} else {
				require.Error(t, err)
				assert.Equal(t, "You don't have permission to update this blog", err.Error())
				assert.True(t, errors.Is(err, common.ErrPermissionDenied))
			}

			_, err = svc.DeleteBlog(context.Background(), tt.identity, blog.ID)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, "You don't have permission to delete this blog", err.Error())
			}
		})
	}
}

func TestBlogNotFoundBeforePermission(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())
	missingID := uuid.NewString()

	// A stranger probing a missing id sees 404, never 403.
	_, err := svc.UpdateBlog(context.Background(), otherIdentity, missingID, service.UpdateBlogRequest{})
	require.Error(t, err)
	assert.Equal(t, "Blog not found", err.Error())
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.DeleteBlog(context.Background(), otherIdentity, missingID)
	require.Error(t, err)
	assert.Equal(t, "Blog not found", err.Error())
}

func TestBlogInvalidIDFormat(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())

	_, err := svc.GetBlog(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "Invalid blog ID format", err.Error())
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestDeleteBlogTwice(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())
	blog, err := svc.CreateBlog(context.Background(), authorIdentity, validCreateBlog())
	require.NoError(t, err)

	_, err = svc.DeleteBlog(context.Background(), authorIdentity, blog.ID)
	require.NoError(t, err)

	_, err = svc.DeleteBlog(context.Background(), authorIdentity, blog.ID)
	require.Error(t, err)
	assert.Equal(t, "Blog not found", err.Error())
}

func TestListPublishedBlogs(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())

	published := validCreateBlog()
	_, err := svc.CreateBlog(context.Background(), authorIdentity, published)
	require.NoError(t, err)

	draft := validCreateBlog()
	draft.Title = "Unfinished Draft"
	draft.IsPublished = false
	_, err = svc.CreateBlog(context.Background(), authorIdentity, draft)
	require.NoError(t, err)

	blogs, pagination, err := svc.ListPublishedBlogs(context.Background(), service.BlogListQuery{})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.True(t, blogs[0].IsPublished)
	assert.Equal(t, 1, pagination.Total)
	assert.Equal(t, 1, pagination.TotalPages)
	assert.Equal(t, 10, pagination.Limit, "limit defaults when the query omits it")
}

func TestListBlogsByAuthor(t *testing.T) {
	svc := service.NewBlogService(newMemBlogRepo())

	_, err := svc.CreateBlog(context.Background(), authorIdentity, validCreateBlog())
	require.NoError(t, err)
	other := validCreateBlog()
	other.Title = "Someone Else Writes"
	_, err = svc.CreateBlog(context.Background(), otherIdentity, other)
	require.NoError(t, err)

	blogs, _, err := svc.ListBlogsByAuthor(context.Background(), authorIdentity.UserID, service.BlogListQuery{})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, authorIdentity.UserID, blogs[0].AuthorID)

	_, _, err = svc.ListBlogsByAuthor(context.Background(), "nope", service.BlogListQuery{})
	require.Error(t, err)
	assert.Equal(t, "Invalid author ID format", err.Error())
}
