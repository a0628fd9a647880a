package models

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

type BlogPost struct {
	ID            string
	Title         string
	Slug          string
	Content       string
	Excerpt       *string
	AuthorID      *string
	Status        PostStatus
	PublishedAt   *time.Time
	FeaturedImage *string
	Categories    []string
	Tags          []string
	IsFeatured    bool
	ViewCount     int
	Likes         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveDate is the timestamp listings sort by: publication time when the
// post has been published, creation time otherwise.
func (p BlogPost) EffectiveDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

type BlogComment struct {
	ID          string
	PostID      string
	AuthorName  string
	AuthorEmail string
	Content     string
	Status      CommentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
