package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// JobStore is the read side of the job entity store. GetJob and GetCompany
// return (nil, nil) when the id does not exist.
type JobStore interface {
	GetJob(ctx context.Context, id string) (*model.Job, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	SearchJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error)
}

// ReferenceStore holds a user's bookmarks and applications.
// Create methods return ErrDuplicate when the (user, job) pair already exists.
// Delete methods return ErrNotFound when nothing was deleted.
type ReferenceStore interface {
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error)
	CreateBookmark(ctx context.Context, userID uuid.UUID, jobID string) (*model.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, id uuid.UUID) error
	DeleteBookmarkByJobID(ctx context.Context, userID uuid.UUID, jobID string) error

	ListApplications(ctx context.Context, userID uuid.UUID) ([]model.Application, error)
	FindApplication(ctx context.Context, userID, id uuid.UUID) (*model.Application, error)
	CreateApplication(ctx context.Context, a *model.Application) (*model.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) error
	UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, status, note string) (*model.Application, error)
	ApplicationHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error)
}

// UserStore maps identity provider accounts to profiles
type UserStore interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	CreateUser(ctx context.Context, firebaseUID, email, name string) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates *model.User) (*model.User, error)
}
