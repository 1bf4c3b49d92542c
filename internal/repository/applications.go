package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

const applicationColumns = `
	id, user_id, job_id, status, resume_ref, cover_letter, notes,
	applied_at, created_at, updated_at`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Status, &a.ResumeRef, &a.CoverLetter, &a.Notes,
		&a.AppliedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListApplications returns a user's applications, most recently updated first
func (r *ReferenceRepo) ListApplications(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	apps := []model.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}
	return apps, nil
}

// FindApplication returns one of the user's applications, or nil
func (r *ReferenceRepo) FindApplication(ctx context.Context, userID, id uuid.UUID) (*model.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	return a, nil
}

// CreateApplication creates a new application
func (r *ReferenceRepo) CreateApplication(ctx context.Context, a *model.Application) (*model.Application, error) {
	created, err := scanApplication(r.pool.QueryRow(ctx, `
		INSERT INTO applications (user_id, job_id, status, resume_ref, cover_letter, notes, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+applicationColumns,
		a.UserID, a.JobID, a.Status, a.ResumeRef, a.CoverLetter, a.Notes, a.AppliedAt,
	))
	if isUniqueViolation(err) {
		return nil, service.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	return created, nil
}

// DeleteApplication withdraws an application. Its history goes with it.
func (r *ReferenceRepo) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM applications WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// UpdateApplicationStatus changes application status and records history.
// Returns nil if the application does not belong to the user.
func (r *ReferenceRepo) UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, newStatus, note string) (*model.Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, `
		SELECT status FROM applications WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, id, userID).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching current status: %w", err)
	}

	updated, err := scanApplication(tx.QueryRow(ctx, `
		UPDATE applications
		SET status = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+applicationColumns,
		id, userID, newStatus,
	))
	if err != nil {
		return nil, fmt.Errorf("updating application status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO status_history (application_id, from_status, to_status, note)
		VALUES ($1, $2, $3, $4)
	`, id, currentStatus, newStatus, note)
	if err != nil {
		return nil, fmt.Errorf("recording status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

// ApplicationHistory returns status changes for an application, oldest first
func (r *ReferenceRepo) ApplicationHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, application_id, from_status, to_status, changed_at, note
		FROM status_history
		WHERE application_id = $1
		ORDER BY changed_at ASC
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetching status history: %w", err)
	}
	defer rows.Close()

	history := []model.StatusHistory{}
	for rows.Next() {
		var h model.StatusHistory
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.FromStatus, &h.ToStatus, &h.ChangedAt, &h.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return history, nil
}
