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

const userColumns = `id, firebase_uid, email, name, headline, location, skills, resume_ref,
	created_at, updated_at`

func scanUser(row scanner) (*model.User, error) {
	var (
		u                    model.User
		skills               string
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.Name, &u.Headline, &u.Location,
		&skills, &u.ResumeRef, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if u.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *Store) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	u, err := s.findUser(ctx, "firebase_uid = ?", firebaseUID)
	if err != nil {
		return nil, fmt.Errorf("finding user by firebase uid: %w", err)
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.findUser(ctx, "id = ?", id.String())
	if err != nil {
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, firebaseUID, email, name string) (*model.User, error) {
	now := fromMillis(toMillis(s.now()))
	u := model.User{
		ID:          uuid.New(),
		FirebaseUID: firebaseUID,
		Email:       email,
		Name:        name,
		Skills:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.FirebaseUID, u.Email, u.Name, u.Headline, u.Location,
		encodeList(u.Skills), u.ResumeRef, toMillis(now), toMillis(now),
	)
	if isUniqueViolation(err) {
		return nil, service.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// UpdateUser replaces the editable profile fields. Returns nil if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, updates *model.User) (*model.User, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users
		SET name = ?, headline = ?, location = ?, skills = ?, resume_ref = ?, updated_at = ?
		WHERE id = ?`,
		updates.Name, updates.Headline, updates.Location, encodeList(updates.Skills), updates.ResumeRef,
		toMillis(s.now()), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.FindUserByID(ctx, id)
}
