package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
)

func seedPost(t *testing.T, posts *Posts, id, slug string, status models.PostStatus, publishedAt *time.Time, categories, tags []string) models.BlogPost {
	t.Helper()
	post := models.BlogPost{
		ID:          id,
		Title:       "Post " + id,
		Slug:        slug,
		Content:     "content " + id,
		Status:      status,
		PublishedAt: publishedAt,
		Categories:  categories,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, posts.Create(context.Background(), post))
	return post
}

func TestPostsListPaginationPartitions(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	when := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPost(t, posts, fmt.Sprintf("p%d", i), fmt.Sprintf("post-%d", i),
			models.PostStatusPublished, &when, nil, nil)
	}

	first, total, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, first, 2)

	second, total2, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, total, total2)
	require.Len(t, second, 2)

	third, _, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, third, 1)

	seen := map[string]bool{}
	for _, p := range append(append(first, second...), third...) {
		assert.False(t, seen[p.ID], "post %s appeared twice", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 5)

	// Out-of-range page is empty, not an error.
	empty, _, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostsListSortsByEffectiveDate(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	seedPost(t, posts, "old", "old", models.PostStatusPublished, &older, nil, nil)
	seedPost(t, posts, "new", "new", models.PostStatusPublished, &newer, nil, nil)

	listed, _, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "new", listed[0].ID)
	assert.Equal(t, "old", listed[1].ID)
}

func TestPostsListTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	when := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedPost(t, posts, "first", "first", models.PostStatusPublished, &when, nil, nil)
	seedPost(t, posts, "second", "second", models.PostStatusPublished, &when, nil, nil)

	listed, _, err := posts.List(ctx, repository.PostFilter{}, repository.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].ID)
	assert.Equal(t, "second", listed[1].ID)
}

func TestPostsListFilterConjunction(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	when := time.Now().UTC()
	seedPost(t, posts, "a", "a", models.PostStatusPublished, &when, []string{"design"}, nil)
	seedPost(t, posts, "b", "b", models.PostStatusPublished, &when, []string{"engineering"}, nil)
	seedPost(t, posts, "c", "c", models.PostStatusDraft, nil, []string{"design"}, nil)

	listed, total, err := posts.List(ctx, repository.PostFilter{
		Status:   models.PostStatusPublished,
		Category: "design",
	}, repository.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, "a", listed[0].ID)
}

func TestPostsListSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	excerpt := "A Deep Dive into Typography"
	post := models.BlogPost{
		ID: "p1", Title: "Design Notes", Slug: "design-notes",
		Content: "body text", Excerpt: &excerpt,
		Status: models.PostStatusPublished, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, posts.Create(ctx, post))

	listed, _, err := posts.List(ctx, repository.PostFilter{Search: "typography"}, repository.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, _, err = posts.List(ctx, repository.PostFilter{Search: "DESIGN"}, repository.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, _, err = posts.List(ctx, repository.PostFilter{Search: "missing"}, repository.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestPostsFeaturedOnlyPublished(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	when := time.Now().UTC()
	published := seedPost(t, posts, "pub", "pub", models.PostStatusPublished, &when, nil, nil)
	published.IsFeatured = true
	require.NoError(t, posts.Update(ctx, published))

	draft := seedPost(t, posts, "draft", "draft", models.PostStatusDraft, nil, nil, nil)
	draft.IsFeatured = true
	require.NoError(t, posts.Update(ctx, draft))

	featured, err := posts.Featured(ctx, 5)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "pub", featured[0].ID)
}

func TestPostsCategoriesAndTagsDistinctSorted(t *testing.T) {
	ctx := context.Background()
	posts := NewPosts()

	when := time.Now().UTC()
	seedPost(t, posts, "a", "a", models.PostStatusPublished, &when, []string{"design", "process"}, []string{"go"})
	seedPost(t, posts, "b", "b", models.PostStatusPublished, &when, []string{"design"}, []string{"api", "go"})

	categories, err := posts.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "process"}, categories)

	tags, err := posts.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "go"}, tags)
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()

	require.NoError(t, users.Create(ctx, models.User{ID: "u1", Email: "a@b.c"}))
	err := users.Create(ctx, models.User{ID: "u2", Email: "a@b.c"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCommentsListByPostFiltersStatus(t *testing.T) {
	ctx := context.Background()
	comments := NewComments()

	require.NoError(t, comments.Create(ctx, models.BlogComment{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved}))
	require.NoError(t, comments.Create(ctx, models.BlogComment{ID: "c2", PostID: "p1", Status: models.CommentStatusPending}))
	require.NoError(t, comments.Create(ctx, models.BlogComment{ID: "c3", PostID: "p2", Status: models.CommentStatusApproved}))

	approved, err := comments.ListByPost(ctx, "p1", models.CommentStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "c1", approved[0].ID)

	all, err := comments.ListByPost(ctx, "p1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
