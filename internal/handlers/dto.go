package handlers

import (
	"time"

	"lumenstudio/api/internal/models"
)

// Response DTOs. Models stay JSON-agnostic; the wire shape (camelCase, no
// password hash) is decided here.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type postResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	AuthorID      *string    `json:"authorId"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
	FeaturedImage *string    `json:"featuredImage"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	IsFeatured    bool       `json:"isFeatured"`
	ViewCount     int        `json:"viewCount"`
	Likes         int        `json:"likes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toPostResponse(p models.BlogPost) postResponse {
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		AuthorID:      p.AuthorID,
		Status:        string(p.Status),
		PublishedAt:   p.PublishedAt,
		FeaturedImage: p.FeaturedImage,
		Categories:    p.Categories,
		Tags:          p.Tags,
		IsFeatured:    p.IsFeatured,
		ViewCount:     p.ViewCount,
		Likes:         p.Likes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPostResponses(posts []models.BlogPost) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toCommentResponse(c models.BlogComment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
	}
}

func toCommentResponses(comments []models.BlogComment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Consent   bool      `json:"consent"`
	CreatedAt time.Time `json:"createdAt"`
}

func toContactResponse(s models.ContactSubmission) contactResponse {
	return contactResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Company:   s.Company,
		Service:   s.Service,
		Message:   s.Message,
		Consent:   s.Consent,
		CreatedAt: s.CreatedAt,
	}
}
