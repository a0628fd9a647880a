// Package repository defines the persistence interfaces the services depend
// on, plus their Postgres implementations. A memory variant for tests lives
// in the memory sub-package.
package repository

import (
	"context"

	"lumenstudio/api/internal/models"
)

// PostFilter narrows a listing. All supplied predicates are conjunctive;
// zero values mean "no filter". The HTTP layer treats malformed client input
// as absent, so by the time a filter reaches a store it is already clean.
type PostFilter struct {
	Status   models.PostStatus
	Search   string
	Category string
	Tag      string
}

// PageRequest is a 1-based page over a filtered listing.
type PageRequest struct {
	Page  int
	Limit int
}

const DefaultPageLimit = 10

// Normalize clamps a page request to sane values, defaulting to page 1 with
// 10 items.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

type PostStore interface {
	Create(ctx context.Context, post models.BlogPost) error
	GetByID(ctx context.Context, id string) (models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (models.BlogPost, error)
	Update(ctx context.Context, post models.BlogPost) error
	Delete(ctx context.Context, id string) error

	// List returns the page of posts matching filter, sorted most-recent-first
	// by effective date, plus the total match count before slicing.
	List(ctx context.Context, filter PostFilter, page PageRequest) ([]models.BlogPost, int, error)

	// Featured returns published posts flagged as featured, most-recent-first.
	Featured(ctx context.Context, limit int) ([]models.BlogPost, error)

	// Categories and Tags return the distinct values across all posts,
	// alphabetically sorted.
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)

	// SlugExists reports whether any post other than excludeID holds slug.
	SlugExists(ctx context.Context, slug string, excludeID string) (bool, error)

	// FeaturedImages returns every non-empty featured_image reference, for
	// the orphaned-asset sweep.
	FeaturedImages(ctx context.Context) ([]string, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment models.BlogComment) error
	GetByID(ctx context.Context, id string) (models.BlogComment, error)

	// ListByPost returns a post's comments newest-first, optionally filtered
	// by status ("" means all).
	ListByPost(ctx context.Context, postID string, status models.CommentStatus) ([]models.BlogComment, error)

	UpdateStatus(ctx context.Context, id string, status models.CommentStatus) (models.BlogComment, error)
	Delete(ctx context.Context, id string) error
}

type ContactStore interface {
	Create(ctx context.Context, submission models.ContactSubmission) error
	List(ctx context.Context) ([]models.ContactSubmission, error)
}
