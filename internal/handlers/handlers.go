package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lumenstudio/api/internal/config"
	"lumenstudio/api/internal/middleware"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/service"
)

// HandlerSet binds every HTTP endpoint to its service. Services are injected
// so handler tests can run against memory-backed stores; db and cache are
// only used by the health endpoint and may be nil in tests.
type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    *service.AuthService
	blog    *service.BlogService
	contact *service.ContactService
	upload  *service.UploadService

	db    *pgxpool.Pool
	cache *redis.Client

	loginLimiter   *middleware.RateLimiter
	contactLimiter *middleware.RateLimiter
	commentLimiter *middleware.RateLimiter
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	auth *service.AuthService,
	blog *service.BlogService,
	contact *service.ContactService,
	upload *service.UploadService,
	db *pgxpool.Pool,
	cache *redis.Client,
) HandlerSet {
	rl := cfg.RateLimit
	return HandlerSet{
		log:     log,
		cfg:     cfg,
		auth:    auth,
		blog:    blog,
		contact: contact,
		upload:  upload,
		db:      db,
		cache:   cache,

		loginLimiter:   middleware.NewRateLimiter(rl.LoginMax, rl.LoginWindow, "Too many login attempts. Please try again later."),
		contactLimiter: middleware.NewRateLimiter(rl.ContactMax, rl.ContactWindow, "Too many contact form submissions. Please try again later."),
		commentLimiter: middleware.NewRateLimiter(rl.CommentMax, rl.CommentWindow, "Too many comment submissions. Please try again later."),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authed := middleware.Auth(h.auth)
	adminOnly := middleware.RequireRoles(models.UserRoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.loginLimiter.Handler(), h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/me", authed, h.Me)

		users := auth.Group("/users", authed, adminOnly)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	blog := router.Group("/blog")
	{
		blog.GET("/posts", h.ListPosts)
		blog.POST("/posts", authed, h.CreatePost)
		blog.GET("/posts/slug/:slug", h.GetPostBySlug)
		blog.GET("/posts/related/:slug", h.RelatedPosts)
		blog.GET("/posts/:id", h.GetPost)
		blog.PUT("/posts/:id", authed, h.UpdatePost)
		blog.DELETE("/posts/:id", authed, h.DeletePost)

		blog.POST("/posts/:id/comments", h.commentLimiter.Handler(), h.CreateComment)
		blog.GET("/posts/:id/comments", h.ListComments)
		blog.PUT("/comments/:id/status", authed, h.ModerateComment)
		blog.DELETE("/comments/:id", authed, h.DeleteComment)

		blog.GET("/featured", h.FeaturedPosts)
		blog.GET("/categories", h.Categories)
		blog.GET("/tags", h.Tags)
	}

	router.POST("/contact", h.contactLimiter.Handler(), h.SubmitContact)
	router.GET("/contact", authed, adminOnly, h.ListContacts)

	router.POST("/upload", authed, h.Upload)
}

// Close releases the background goroutines owned by the rate limiters.
func (h HandlerSet) Close() {
	h.loginLimiter.Stop()
	h.contactLimiter.Stop()
	h.commentLimiter.Stop()
}
