package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// Tracker performs the user's write actions: bookmarking, applying and
// withdrawing. Every action takes the caller's current view and returns the
// view to show next: the updated one on success, the unchanged one on failure.
type Tracker struct {
	refs     ReferenceStore
	enricher *Enricher
	now      func() time.Time
}

func NewTracker(refs ReferenceStore, enricher *Enricher) *Tracker {
	return &Tracker{refs: refs, enricher: enricher, now: time.Now}
}

// ApplyInput is the user-provided part of an application.
type ApplyInput struct {
	ResumeRef   string `json:"resumeRef"`
	CoverLetter string `json:"coverLetter"`
	Notes       string `json:"notes"`
}

// Bookmark saves jobID for the user.
func (t *Tracker) Bookmark(ctx context.Context, userID uuid.UUID, jobID string, view StatusSet) (StatusSet, *model.Bookmark, error) {
	if err := t.requireJob(ctx, userID, jobID); err != nil {
		return view, nil, err
	}

	var created *model.Bookmark
	next, err := Attempt(view, view.WithBookmarked(jobID, true), func() error {
		var err error
		created, err = t.refs.CreateBookmark(ctx, userID, jobID)
		if err != nil {
			return fmt.Errorf("creating bookmark: %w", err)
		}
		return nil
	})
	if err != nil {
		return next, nil, err
	}
	log.Info().Str("userId", userID.String()).Str("jobId", jobID).Msg("Job bookmarked")
	return next, created, nil
}

// Unbookmark removes the user's bookmark of jobID. The job itself may no
// longer exist.
func (t *Tracker) Unbookmark(ctx context.Context, userID uuid.UUID, jobID string, view StatusSet) (StatusSet, error) {
	if userID == uuid.Nil {
		return view, ErrUnauthenticated
	}
	if jobID == "" {
		return view, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return Attempt(view, view.WithBookmarked(jobID, false), func() error {
		if err := t.refs.DeleteBookmarkByJobID(ctx, userID, jobID); err != nil {
			return fmt.Errorf("deleting bookmark for job %s: %w", jobID, err)
		}
		return nil
	})
}

// RemoveBookmark deletes one of the user's bookmarks by its own id.
func (t *Tracker) RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID, view StatusSet) (StatusSet, error) {
	if userID == uuid.Nil {
		return view, ErrUnauthenticated
	}

	bookmarks, err := t.refs.ListBookmarks(ctx, userID)
	if err != nil {
		return view, fmt.Errorf("listing bookmarks: %w", err)
	}
	var target *model.Bookmark
	for i := range bookmarks {
		if bookmarks[i].ID == bookmarkID {
			target = &bookmarks[i]
			break
		}
	}
	if target == nil {
		return view, ErrNotFound
	}

	return Attempt(view, view.WithBookmarked(target.JobID, false), func() error {
		if err := t.refs.DeleteBookmark(ctx, userID, bookmarkID); err != nil {
			return fmt.Errorf("deleting bookmark: %w", err)
		}
		return nil
	})
}

// Apply submits an application for jobID with status pending.
func (t *Tracker) Apply(ctx context.Context, userID uuid.UUID, jobID string, in ApplyInput, view StatusSet) (StatusSet, *model.Application, error) {
	if err := t.requireJob(ctx, userID, jobID); err != nil {
		return view, nil, err
	}

	appliedAt := t.now().UTC()
	app := &model.Application{
		UserID:      userID,
		JobID:       jobID,
		Status:      model.StatusPending,
		ResumeRef:   strings.TrimSpace(in.ResumeRef),
		CoverLetter: in.CoverLetter,
		Notes:       in.Notes,
		AppliedAt:   &appliedAt,
	}

	var created *model.Application
	next, err := Attempt(view, view.WithApplied(jobID, model.StatusPending), func() error {
		var err error
		created, err = t.refs.CreateApplication(ctx, app)
		if err != nil {
			return fmt.Errorf("creating application: %w", err)
		}
		return nil
	})
	if err != nil {
		return next, nil, err
	}
	log.Info().Str("userId", userID.String()).Str("jobId", jobID).Msg("Application submitted")
	return next, created, nil
}

// Withdraw deletes one of the user's applications.
func (t *Tracker) Withdraw(ctx context.Context, userID, applicationID uuid.UUID, view StatusSet) (StatusSet, error) {
	app, err := t.findApplication(ctx, userID, applicationID)
	if err != nil {
		return view, err
	}
	return Attempt(view, view.WithApplied(app.JobID, ""), func() error {
		if err := t.refs.DeleteApplication(ctx, userID, applicationID); err != nil {
			return fmt.Errorf("deleting application: %w", err)
		}
		return nil
	})
}

// UpdateStatus moves an application to status and records the change in its history.
func (t *Tracker) UpdateStatus(ctx context.Context, userID, applicationID uuid.UUID, status, note string, view StatusSet) (StatusSet, *model.Application, error) {
	if !model.ValidStatus(status) {
		return view, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	app, err := t.findApplication(ctx, userID, applicationID)
	if err != nil {
		return view, nil, err
	}

	var updated *model.Application
	next, err := Attempt(view, view.WithApplied(app.JobID, status), func() error {
		var err error
		updated, err = t.refs.UpdateApplicationStatus(ctx, userID, applicationID, status, note)
		if err != nil {
			return fmt.Errorf("updating application status: %w", err)
		}
		if updated == nil {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return next, nil, err
	}
	return next, updated, nil
}

// History returns the status changes of one of the user's applications, oldest first.
func (t *Tracker) History(ctx context.Context, userID, applicationID uuid.UUID) ([]model.StatusHistory, error) {
	if _, err := t.findApplication(ctx, userID, applicationID); err != nil {
		return nil, err
	}
	history, err := t.refs.ApplicationHistory(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetching status history: %w", err)
	}
	if history == nil {
		history = []model.StatusHistory{}
	}
	return history, nil
}

func (t *Tracker) requireJob(ctx context.Context, userID uuid.UUID, jobID string) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	if jobID == "" {
		return fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	job, err := t.enricher.Job(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrNotFound
	}
	return nil
}

func (t *Tracker) findApplication(ctx context.Context, userID, applicationID uuid.UUID) (*model.Application, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	app, err := t.refs.FindApplication(ctx, userID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}
