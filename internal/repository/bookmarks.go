package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// ReferenceRepo stores bookmarks and applications
type ReferenceRepo struct {
	pool *pgxpool.Pool
}

func NewReferenceRepo(pool *pgxpool.Pool) *ReferenceRepo {
	return &ReferenceRepo{pool: pool}
}

// ListBookmarks returns a user's bookmarks, newest first
func (r *ReferenceRepo) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, job_id, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.JobID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmark rows: %w", err)
	}
	return bookmarks, nil
}

// CreateBookmark saves a job for a user
func (r *ReferenceRepo) CreateBookmark(ctx context.Context, userID uuid.UUID, jobID string) (*model.Bookmark, error) {
	var b model.Bookmark
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bookmarks (user_id, job_id)
		VALUES ($1, $2)
		RETURNING id, user_id, job_id, created_at
	`, userID, jobID).Scan(&b.ID, &b.UserID, &b.JobID, &b.CreatedAt)
	if isUniqueViolation(err) {
		return nil, service.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}
	return &b, nil
}

// DeleteBookmark deletes a bookmark by its id
func (r *ReferenceRepo) DeleteBookmark(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM bookmarks WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// DeleteBookmarkByJobID deletes the user's bookmark of a job
func (r *ReferenceRepo) DeleteBookmarkByJobID(ctx context.Context, userID uuid.UUID, jobID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND job_id = $2
	`, userID, jobID)
	if err != nil {
		return fmt.Errorf("deleting bookmark by job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}
