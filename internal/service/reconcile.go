package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
	"golang.org/x/sync/errgroup"
)

// Reconciler answers "has the user bookmarked / applied to these jobs"
// from one read of each reference list, never a query per job.
type Reconciler struct {
	refs ReferenceStore
}

func NewReconciler(refs ReferenceStore) *Reconciler {
	return &Reconciler{refs: refs}
}

// Reconcile returns the status of jobIDsInView for userID. Membership is
// reference existence and does not depend on the job still existing.
// A zero userID is an anonymous viewer: empty sets, no store call.
func (r *Reconciler) Reconcile(ctx context.Context, userID uuid.UUID, jobIDsInView []string) (StatusSet, error) {
	status := EmptyStatus()
	if userID == uuid.Nil || len(jobIDsInView) == 0 {
		return status, nil
	}

	var (
		bookmarks []model.Bookmark
		apps      []model.Application
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookmarks, err = r.refs.ListBookmarks(gCtx, userID)
		if err != nil {
			return fmt.Errorf("listing bookmarks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		apps, err = r.refs.ListApplications(gCtx, userID)
		if err != nil {
			return fmt.Errorf("listing applications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return status, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	bookmarked := make(map[string]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		bookmarked[b.JobID] = struct{}{}
	}
	// Duplicate applications for one job resolve last-write-wins by
	// UpdatedAt, then CreatedAt. List order is not relied on.
	latest := make(map[string]model.Application, len(apps))
	for _, a := range apps {
		if cur, ok := latest[a.JobID]; !ok || newerWrite(a, cur) {
			latest[a.JobID] = a
		}
	}
	applied := make(map[string]string, len(latest))
	for jobID, a := range latest {
		applied[jobID] = a.Status
	}

	for _, id := range jobIDsInView {
		if _, ok := bookmarked[id]; ok {
			status.bookmarked[id] = struct{}{}
		}
		if s, ok := applied[id]; ok {
			status.applied[id] = s
		}
	}
	return status, nil
}

func newerWrite(a, b model.Application) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
