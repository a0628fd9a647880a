package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lumenstudio/api/internal/models"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

var _ ContactStore = (*ContactRepository)(nil)

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, submission models.ContactSubmission) error {
	const query = `
		INSERT INTO contact_submissions (
			id, name, email, company, service, message, consent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.pool.Exec(ctx, query,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Company,
		submission.Service,
		submission.Message,
		submission.Consent,
		submission.CreatedAt,
	)
	return err
}

func (r *ContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	const query = `
		SELECT id, name, email, company, service, message, consent, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []models.ContactSubmission{}
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Email,
			&s.Company,
			&s.Service,
			&s.Message,
			&s.Consent,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
