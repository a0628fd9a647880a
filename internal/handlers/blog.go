package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/middleware"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
	"lumenstudio/api/internal/service"
)

// ListPosts serves the public and admin listing. Query parameters that fail
// to parse are treated as absent rather than rejected, so a mangled bookmark
// still renders page one.
func (h HandlerSet) ListPosts(c *gin.Context) {
	filter := repository.PostFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}
	if status := models.PostStatus(c.Query("status")); status.Valid() {
		filter.Status = status
	}

	page := repository.PageRequest{
		Page:  intQuery(c, "page", 1),
		Limit: intQuery(c, "limit", repository.DefaultPageLimit),
	}
	page = page.Normalize()

	posts, total, err := h.blog.ListPosts(c.Request.Context(), filter, page)
	if err != nil {
		h.respondError(c, err)
		return
	}

	totalPages := (total + page.Limit - 1) / page.Limit
	respond(c, http.StatusOK, gin.H{
		"posts": toPostResponses(posts),
		"pagination": gin.H{
			"page":       page.Page,
			"limit":      page.Limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

func (h HandlerSet) GetPost(c *gin.Context) {
	post, err := h.blog.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toPostResponse(post))
}

func (h HandlerSet) GetPostBySlug(c *gin.Context) {
	post, err := h.blog.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toPostResponse(post))
}

type postRequest struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	Status        string   `json:"status"`
	FeaturedImage *string  `json:"featuredImage"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	IsFeatured    bool     `json:"isFeatured"`
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	var req postRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := service.PostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Status:        models.PostStatus(req.Status),
		FeaturedImage: req.FeaturedImage,
		Categories:    req.Categories,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
	}
	if claims, ok := middleware.ClaimsFrom(c); ok {
		input.AuthorID = &claims.UserID
	}

	post, err := h.blog.CreatePost(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, toPostResponse(post))
}

type postUpdateRequest struct {
	Title         *string  `json:"title"`
	Slug          *string  `json:"slug"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	Status        *string  `json:"status"`
	FeaturedImage *string  `json:"featuredImage"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	IsFeatured    *bool    `json:"isFeatured"`
}

func (h HandlerSet) UpdatePost(c *gin.Context) {
	var req postUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var status *models.PostStatus
	if req.Status != nil {
		s := models.PostStatus(*req.Status)
		status = &s
	}

	post, err := h.blog.UpdatePost(c.Request.Context(), c.Param("id"), service.PostUpdate{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Status:        status,
		FeaturedImage: req.FeaturedImage,
		Categories:    req.Categories,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, toPostResponse(post))
}

func (h HandlerSet) DeletePost(c *gin.Context) {
	if err := h.blog.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h HandlerSet) FeaturedPosts(c *gin.Context) {
	posts, err := h.blog.FeaturedPosts(c.Request.Context(), intQuery(c, "limit", service.DefaultFeaturedLimit))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toPostResponses(posts))
}

func (h HandlerSet) RelatedPosts(c *gin.Context) {
	posts, err := h.blog.RelatedPosts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toPostResponses(posts))
}

func (h HandlerSet) Categories(c *gin.Context) {
	categories, err := h.blog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respond(c, http.StatusOK, categories)
}

func (h HandlerSet) Tags(c *gin.Context) {
	tags, err := h.blog.Tags(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	respond(c, http.StatusOK, tags)
}

// --- comments ---

type commentRequest struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Content     string `json:"content"`
}

func (h HandlerSet) CreateComment(c *gin.Context) {
	var req commentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	comment, err := h.blog.AddComment(c.Request.Context(), service.CommentInput{
		PostID:      c.Param("id"),
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, toCommentResponse(comment))
}

// ListComments shows approved comments to the public; an authenticated
// caller also sees pending and rejected ones.
func (h HandlerSet) ListComments(c *gin.Context) {
	publicOnly := true
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if _, err := h.auth.VerifyAccess(bearerToken(authHeader)); err == nil {
			publicOnly = false
		}
	}

	comments, err := h.blog.ListComments(c.Request.Context(), c.Param("id"), publicOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toCommentResponses(comments))
}

type moderateRequest struct {
	Status string `json:"status"`
}

func (h HandlerSet) ModerateComment(c *gin.Context) {
	var req moderateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	comment, err := h.blog.ModerateComment(c.Request.Context(), c.Param("id"), models.CommentStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toCommentResponse(comment))
}

func (h HandlerSet) DeleteComment(c *gin.Context) {
	if err := h.blog.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// intQuery parses a positive integer query parameter, falling back to def on
// anything unparseable or non-positive.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
