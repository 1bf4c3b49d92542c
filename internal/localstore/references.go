package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// --- Bookmarks ---

func (s *Store) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, job_id, created_at
		FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var (
			b         model.Bookmark
			createdAt int64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.JobID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark row: %w", err)
		}
		b.CreatedAt = fromMillis(createdAt)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (s *Store) CreateBookmark(ctx context.Context, userID uuid.UUID, jobID string) (*model.Bookmark, error) {
	b := model.Bookmark{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		CreatedAt: fromMillis(toMillis(s.now())),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO bookmarks (id, user_id, job_id, created_at) VALUES (?, ?, ?, ?)`,
		b.ID.String(), userID.String(), jobID, toMillis(b.CreatedAt))
	if isUniqueViolation(err) {
		return nil, service.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}
	return &b, nil
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteBookmarkByJobID(ctx context.Context, userID uuid.UUID, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = ? AND job_id = ?`, userID.String(), jobID)
	if err != nil {
		return fmt.Errorf("deleting bookmark by job: %w", err)
	}
	return requireAffected(res)
}

// --- Applications ---

const applicationColumns = `id, user_id, job_id, status, resume_ref, cover_letter, notes,
	applied_at, created_at, updated_at`

func scanApplication(row scanner) (*model.Application, error) {
	var (
		a                    model.Application
		appliedAt            sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.Status, &a.ResumeRef, &a.CoverLetter, &a.Notes,
		&appliedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if appliedAt.Valid {
		t := fromMillis(appliedAt.Int64)
		a.AppliedAt = &t
	}
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}

func (s *Store) ListApplications(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE user_id = ? ORDER BY updated_at DESC, rowid DESC`, userID.String())
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
	return apps, rows.Err()
}

func (s *Store) FindApplication(ctx context.Context, userID, id uuid.UUID) (*model.Application, error) {
	a, err := scanApplication(s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE id = ? AND user_id = ?`, id.String(), userID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	return a, nil
}

func (s *Store) CreateApplication(ctx context.Context, a *model.Application) (*model.Application, error) {
	now := fromMillis(toMillis(s.now()))
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Status == "" {
		created.Status = model.StatusPending
	}
	if created.AppliedAt != nil {
		t := fromMillis(toMillis(*created.AppliedAt))
		created.AppliedAt = &t
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID.String(), created.UserID.String(), created.JobID, created.Status,
		created.ResumeRef, created.CoverLetter, created.Notes,
		nullMillis(created.AppliedAt), toMillis(now), toMillis(now),
	)
	if isUniqueViolation(err) {
		return nil, service.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	return &created, nil
}

func (s *Store) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	return requireAffected(res)
}

// UpdateApplicationStatus changes the status and records the change in one
// transaction. Returns nil if the application does not belong to the user.
func (s *Store) UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, status, note string) (*model.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM applications WHERE id = ? AND user_id = ?`,
		id.String(), userID.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching current status: %w", err)
	}

	now := toMillis(s.now())
	if _, err := tx.ExecContext(ctx, `UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, id.String()); err != nil {
		return nil, fmt.Errorf("updating application status: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO status_history (id, application_id, from_status, to_status, changed_at, note)
		VALUES (?, ?, ?, ?, ?, ?)`, uuid.NewString(), id.String(), current, status, now, note); err != nil {
		return nil, fmt.Errorf("recording status history: %w", err)
	}

	updated, err := scanApplication(tx.QueryRowContext(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE id = ?`, id.String()))
	if err != nil {
		return nil, fmt.Errorf("reading updated application: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

func (s *Store) ApplicationHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, application_id, from_status, to_status, changed_at, note
		FROM status_history WHERE application_id = ? ORDER BY changed_at ASC, rowid ASC`, applicationID.String())
	if err != nil {
		return nil, fmt.Errorf("fetching status history: %w", err)
	}
	defer rows.Close()

	history := []model.StatusHistory{}
	for rows.Next() {
		var (
			h         model.StatusHistory
			changedAt int64
		)
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.FromStatus, &h.ToStatus, &changedAt, &h.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		h.ChangedAt = fromMillis(changedAt)
		history = append(history, h)
	}
	return history, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return service.ErrNotFound
	}
	return nil
}
