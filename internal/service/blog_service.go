package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/cache"
	"lumenstudio/api/internal/ids"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
	"lumenstudio/api/internal/slug"
)

const (
	// DefaultFeaturedLimit caps the featured listing when the caller does not
	// supply one.
	DefaultFeaturedLimit = 5

	relatedPostsLimit = 3

	// slugAttempts bounds the collision-suffix search. Hitting it means
	// something is pathologically wrong with the data.
	slugAttempts = 1000
)

// AssetRemover deletes a stored asset by its public reference. References
// that do not belong to the store are ignored.
type AssetRemover interface {
	RemoveByRef(ctx context.Context, ref string) error
}

// BlogService owns all blog post and comment mutations and the listing
// read paths.
type BlogService struct {
	posts    repository.PostStore
	comments repository.CommentStore
	lists    *cache.Lists
	assets   AssetRemover
	log      zerolog.Logger
}

func NewBlogService(
	posts repository.PostStore,
	comments repository.CommentStore,
	lists *cache.Lists,
	assets AssetRemover,
	log zerolog.Logger,
) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		lists:    lists,
		assets:   assets,
		log:      log,
	}
}

type PostInput struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       *string
	Status        models.PostStatus
	FeaturedImage *string
	Categories    []string
	Tags          []string
	IsFeatured    bool
	AuthorID      *string
}

// CreatePost assigns an ID, derives a unique slug from the title when none is
// supplied, defaults status to draft and stamps publishedAt iff the post is
// born published.
func (s *BlogService) CreatePost(ctx context.Context, input PostInput) (models.BlogPost, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.BlogPost{}, apperr.Validation("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return models.BlogPost{}, apperr.Validation("content is required")
	}

	status := input.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return models.BlogPost{}, apperr.Validation("invalid status")
	}

	base := input.Slug
	if base == "" {
		base = slug.Make(input.Title)
	}

	now := time.Now().UTC()
	post := models.BlogPost{
		ID:            ids.New(),
		Title:         input.Title,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		AuthorID:      input.AuthorID,
		Status:        status,
		FeaturedImage: input.FeaturedImage,
		Categories:    normalizeSet(input.Categories),
		Tags:          normalizeSet(input.Tags),
		IsFeatured:    input.IsFeatured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if status == models.PostStatusPublished {
		post.PublishedAt = &now
	}

	unique, err := s.uniqueSlug(ctx, base, post.ID)
	if err != nil {
		return models.BlogPost{}, err
	}
	post.Slug = unique

	if err := s.posts.Create(ctx, post); err != nil {
		return models.BlogPost{}, err
	}

	s.lists.Invalidate(ctx)
	s.log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Str("status", string(post.Status)).Msg("blog post created")
	return post, nil
}

type PostUpdate struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	Status        *models.PostStatus
	FeaturedImage *string
	Categories    []string
	Tags          []string
	IsFeatured    *bool
}

// UpdatePost applies a partial update. The slug is regenerated only when the
// title changes (or an explicit slug is supplied); publishedAt is set on the
// transition into published and never cleared afterwards; updatedAt always
// moves.
func (s *BlogService) UpdatePost(ctx context.Context, id string, update PostUpdate) (models.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return models.BlogPost{}, err
	}

	titleChanged := false
	if update.Title != nil && *update.Title != post.Title {
		if strings.TrimSpace(*update.Title) == "" {
			return models.BlogPost{}, apperr.Validation("title must not be empty")
		}
		post.Title = *update.Title
		titleChanged = true
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return models.BlogPost{}, apperr.Validation("content must not be empty")
		}
		post.Content = *update.Content
	}
	if update.Excerpt != nil {
		post.Excerpt = update.Excerpt
	}
	if update.FeaturedImage != nil {
		post.FeaturedImage = update.FeaturedImage
	}
	if update.Categories != nil {
		post.Categories = normalizeSet(update.Categories)
	}
	if update.Tags != nil {
		post.Tags = normalizeSet(update.Tags)
	}
	if update.IsFeatured != nil {
		post.IsFeatured = *update.IsFeatured
	}

	if update.Status != nil {
		if !update.Status.Valid() {
			return models.BlogPost{}, apperr.Validation("invalid status")
		}
		post.Status = *update.Status
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	switch {
	case update.Slug != nil && *update.Slug != post.Slug:
		unique, err := s.uniqueSlug(ctx, *update.Slug, post.ID)
		if err != nil {
			return models.BlogPost{}, err
		}
		post.Slug = unique
	case titleChanged:
		unique, err := s.uniqueSlug(ctx, slug.Make(post.Title), post.ID)
		if err != nil {
			return models.BlogPost{}, err
		}
		post.Slug = unique
	}

	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return models.BlogPost{}, err
	}

	s.lists.Invalidate(ctx)
	return post, nil
}

// DeletePost removes the post and, as a side effect, its featured-image
// asset. Asset removal failure is logged but does not fail the delete.
func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	if s.assets != nil && post.FeaturedImage != nil && *post.FeaturedImage != "" {
		if err := s.assets.RemoveByRef(ctx, *post.FeaturedImage); err != nil {
			s.log.Warn().Err(err).Str("post_id", id).Str("ref", *post.FeaturedImage).Msg("featured image cleanup failed")
		}
	}

	s.lists.Invalidate(ctx)
	s.log.Info().Str("post_id", id).Msg("blog post deleted")
	return nil
}

func (s *BlogService) GetPost(ctx context.Context, id string) (models.BlogPost, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *BlogService) GetPostBySlug(ctx context.Context, slugStr string) (models.BlogPost, error) {
	return s.posts.GetBySlug(ctx, slugStr)
}

func (s *BlogService) ListPosts(ctx context.Context, filter repository.PostFilter, page repository.PageRequest) ([]models.BlogPost, int, error) {
	return s.posts.List(ctx, filter, page)
}

func (s *BlogService) FeaturedPosts(ctx context.Context, limit int) ([]models.BlogPost, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	return s.posts.Featured(ctx, limit)
}

// RelatedPosts returns up to three other published posts for the post at
// slugStr, most-recent-first.
func (s *BlogService) RelatedPosts(ctx context.Context, slugStr string) ([]models.BlogPost, error) {
	current, err := s.posts.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	published, _, err := s.posts.List(ctx,
		repository.PostFilter{Status: models.PostStatusPublished},
		repository.PageRequest{Page: 1, Limit: relatedPostsLimit + 1},
	)
	if err != nil {
		return nil, err
	}

	related := []models.BlogPost{}
	for _, post := range published {
		if post.ID == current.ID {
			continue
		}
		related = append(related, post)
		if len(related) == relatedPostsLimit {
			break
		}
	}
	return related, nil
}

func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.lists.Get(ctx, cache.KeyCategories); ok {
		return cached, nil
	}
	categories, err := s.posts.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.lists.Set(ctx, cache.KeyCategories, categories)
	return categories, nil
}

func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	if cached, ok := s.lists.Get(ctx, cache.KeyTags); ok {
		return cached, nil
	}
	tags, err := s.posts.Tags(ctx)
	if err != nil {
		return nil, err
	}
	s.lists.Set(ctx, cache.KeyTags, tags)
	return tags, nil
}

// uniqueSlug resolves collisions by suffixing: my-post, my-post-1, my-post-2.
func (s *BlogService) uniqueSlug(ctx context.Context, base string, excludeID string) (string, error) {
	for n := 0; n < slugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.posts.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperr.Conflict("could not derive a unique slug")
}

func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// --- comments ---

type CommentInput struct {
	PostID      string
	AuthorName  string
	AuthorEmail string
	Content     string
}

// AddComment records a public comment submission in pending state after
// checking the post exists.
func (s *BlogService) AddComment(ctx context.Context, input CommentInput) (models.BlogComment, error) {
	if strings.TrimSpace(input.AuthorName) == "" {
		return models.BlogComment{}, apperr.Validation("name is required")
	}
	if !strings.Contains(input.AuthorEmail, "@") {
		return models.BlogComment{}, apperr.Validation("invalid email address")
	}
	if strings.TrimSpace(input.Content) == "" {
		return models.BlogComment{}, apperr.Validation("comment is required")
	}

	if _, err := s.posts.GetByID(ctx, input.PostID); err != nil {
		return models.BlogComment{}, err
	}

	now := time.Now().UTC()
	comment := models.BlogComment{
		ID:          ids.New(),
		PostID:      input.PostID,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		Content:     input.Content,
		Status:      models.CommentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return models.BlogComment{}, err
	}
	return comment, nil
}

// ListComments returns a post's comments newest-first. Public callers see
// approved comments only; moderators pass publicOnly=false for everything.
func (s *BlogService) ListComments(ctx context.Context, postID string, publicOnly bool) ([]models.BlogComment, error) {
	status := models.CommentStatus("")
	if publicOnly {
		status = models.CommentStatusApproved
	}
	return s.comments.ListByPost(ctx, postID, status)
}

func (s *BlogService) ModerateComment(ctx context.Context, id string, status models.CommentStatus) (models.BlogComment, error) {
	if !status.Valid() {
		return models.BlogComment{}, apperr.Validation("invalid comment status")
	}
	return s.comments.UpdateStatus(ctx, id, status)
}

func (s *BlogService) DeleteComment(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}
