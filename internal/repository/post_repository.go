package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/models"
)

const postColumns = `
	id, title, slug, content, excerpt, author_id, status, published_at,
	featured_image, categories, tags, is_featured, view_count, likes,
	created_at, updated_at
`

type PostRepository struct {
	pool *pgxpool.Pool
}

var _ PostStore = (*PostRepository)(nil)

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, post models.BlogPost) error {
	const query = `
		INSERT INTO blog_posts (
			id, title, slug, content, excerpt, author_id, status, published_at,
			featured_image, categories, tags, is_featured, view_count, likes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16
		)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.AuthorID,
		post.Status,
		post.PublishedAt,
		post.FeaturedImage,
		post.Categories,
		post.Tags,
		post.IsFeatured,
		post.ViewCount,
		post.Likes,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("slug already in use")
	}
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (models.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`
	return r.scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	return r.scanPost(r.pool.QueryRow(ctx, query, slug))
}

func (r *PostRepository) Update(ctx context.Context, post models.BlogPost) error {
	const query = `
		UPDATE blog_posts
		SET title = $2, slug = $3, content = $4, excerpt = $5, author_id = $6,
		    status = $7, published_at = $8, featured_image = $9,
		    categories = $10, tags = $11, is_featured = $12,
		    view_count = $13, likes = $14, updated_at = $15
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.AuthorID,
		post.Status,
		post.PublishedAt,
		post.FeaturedImage,
		post.Categories,
		post.Tags,
		post.IsFeatured,
		post.ViewCount,
		post.Likes,
		post.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("slug already in use")
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("blog post not found")
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blog_posts WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("blog post not found")
	}
	return nil
}

// List applies filter conjunctively, counts the matches, then returns the
// requested slice ordered by effective date descending with insertion order
// (ascending id) breaking ties.
func (r *PostRepository) List(ctx context.Context, filter PostFilter, page PageRequest) ([]models.BlogPost, int, error) {
	page = page.Normalize()

	where, args := buildPostFilter(filter)

	countQuery := `SELECT COUNT(*) FROM blog_posts` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM blog_posts%s
		 ORDER BY COALESCE(published_at, created_at) DESC, id ASC
		 LIMIT $%d OFFSET $%d`,
		postColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func buildPostFilter(filter PostFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR content ILIKE $%d OR COALESCE(excerpt, '') ILIKE $%d)", n, n, n))
	}
	if filter.Category != "" {
		add("$%d = ANY(categories)", filter.Category)
	}
	if filter.Tag != "" {
		add("$%d = ANY(tags)", filter.Tag)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostRepository) Featured(ctx context.Context, limit int) ([]models.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE is_featured AND status = 'published'
		ORDER BY COALESCE(published_at, created_at) DESC, id ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectPosts(rows)
}

func (r *PostRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT unnest(categories) AS category
		FROM blog_posts ORDER BY category
	`
	return r.collectStrings(ctx, query)
}

func (r *PostRepository) Tags(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT unnest(tags) AS tag
		FROM blog_posts ORDER BY tag
	`
	return r.collectStrings(ctx, query)
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1 AND id != $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostRepository) FeaturedImages(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT featured_image FROM blog_posts
		WHERE featured_image IS NOT NULL AND featured_image != ''
	`
	return r.collectStrings(ctx, query)
}

func (r *PostRepository) collectStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *PostRepository) collectPosts(rows pgx.Rows) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	for rows.Next() {
		var post models.BlogPost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.Excerpt,
			&post.AuthorID,
			&post.Status,
			&post.PublishedAt,
			&post.FeaturedImage,
			&post.Categories,
			&post.Tags,
			&post.IsFeatured,
			&post.ViewCount,
			&post.Likes,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) scanPost(row pgx.Row) (models.BlogPost, error) {
	var post models.BlogPost
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.AuthorID,
		&post.Status,
		&post.PublishedAt,
		&post.FeaturedImage,
		&post.Categories,
		&post.Tags,
		&post.IsFeatured,
		&post.ViewCount,
		&post.Likes,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BlogPost{}, apperr.NotFound("blog post not found")
		}
		return models.BlogPost{}, err
	}
	return post, nil
}
