package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/models"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

var _ CommentStore = (*CommentRepository)(nil)

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentColumns = `id, post_id, author_name, author_email, content, status, created_at, updated_at`

func (r *CommentRepository) Create(ctx context.Context, comment models.BlogComment) error {
	const query = `
		INSERT INTO blog_comments (
			id, post_id, author_name, author_email, content, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorName,
		comment.AuthorEmail,
		comment.Content,
		comment.Status,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	return err
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (models.BlogComment, error) {
	query := `SELECT ` + commentColumns + ` FROM blog_comments WHERE id = $1`
	return r.scanComment(r.pool.QueryRow(ctx, query, id))
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string, status models.CommentStatus) ([]models.BlogComment, error) {
	query := `SELECT ` + commentColumns + ` FROM blog_comments WHERE post_id = $1`
	args := []any{postID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.BlogComment{}
	for rows.Next() {
		var comment models.BlogComment
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorName,
			&comment.AuthorEmail,
			&comment.Content,
			&comment.Status,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) UpdateStatus(ctx context.Context, id string, status models.CommentStatus) (models.BlogComment, error) {
	query := `
		UPDATE blog_comments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns

	return r.scanComment(r.pool.QueryRow(ctx, query, id, status))
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blog_comments WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

func (r *CommentRepository) scanComment(row pgx.Row) (models.BlogComment, error) {
	var comment models.BlogComment
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorName,
		&comment.AuthorEmail,
		&comment.Content,
		&comment.Status,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BlogComment{}, apperr.NotFound("comment not found")
		}
		return models.BlogComment{}, err
	}
	return comment, nil
}
