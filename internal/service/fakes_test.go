package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
)

var ctx = context.Background()

// fakeJobStore serves jobs and companies from maps. The func fields, when
// set, replace the map lookups.
type fakeJobStore struct {
	jobs      map[string]model.Job
	companies map[string]model.Company
	results   []model.Job

	getJobFn     func(ctx context.Context, id string) (*model.Job, error)
	getCompanyFn func(ctx context.Context, id string) (*model.Company, error)
	searchFn     func(ctx context.Context, q model.JobQuery) ([]model.Job, error)

	jobCalls     atomic.Int32
	companyCalls atomic.Int32
}

func newFakeJobStore(jobs ...model.Job) *fakeJobStore {
	s := &fakeJobStore{
		jobs:      make(map[string]model.Job),
		companies: make(map[string]model.Company),
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	s.jobCalls.Add(1)
	if s.getJobFn != nil {
		return s.getJobFn(ctx, id)
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (s *fakeJobStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	s.companyCalls.Add(1)
	if s.getCompanyFn != nil {
		return s.getCompanyFn(ctx, id)
	}
	c, ok := s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeJobStore) SearchJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, q)
	}
	return s.results, nil
}

// fakeRefStore is an in-memory ReferenceStore enforcing one bookmark and
// one application per (user, job).
type fakeRefStore struct {
	mu        sync.Mutex
	bookmarks []model.Bookmark
	apps      []model.Application
	history   []model.StatusHistory

	listBookmarksErr error
	listAppsErr      error
	createErr        error
	deleteErr        error

	listCalls atomic.Int32
}

func (s *fakeRefStore) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	s.listCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listBookmarksErr != nil {
		return nil, s.listBookmarksErr
	}
	var out []model.Bookmark
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeRefStore) CreateBookmark(ctx context.Context, userID uuid.UUID, jobID string) (*model.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, b := range s.bookmarks {
		if b.UserID == userID && b.JobID == jobID {
			return nil, ErrDuplicate
		}
	}
	b := model.Bookmark{ID: uuid.New(), UserID: userID, JobID: jobID, CreatedAt: time.Now()}
	s.bookmarks = append(s.bookmarks, b)
	return &b, nil
}

func (s *fakeRefStore) DeleteBookmark(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteBookmarkWhere(func(b model.Bookmark) bool { return b.UserID == userID && b.ID == id })
}

func (s *fakeRefStore) DeleteBookmarkByJobID(ctx context.Context, userID uuid.UUID, jobID string) error {
	return s.deleteBookmarkWhere(func(b model.Bookmark) bool { return b.UserID == userID && b.JobID == jobID })
}

func (s *fakeRefStore) deleteBookmarkWhere(match func(model.Bookmark) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	kept := s.bookmarks[:0]
	deleted := false
	for _, b := range s.bookmarks {
		if match(b) {
			deleted = true
			continue
		}
		kept = append(kept, b)
	}
	s.bookmarks = kept
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *fakeRefStore) ListApplications(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	s.listCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listAppsErr != nil {
		return nil, s.listAppsErr
	}
	var out []model.Application
	for _, a := range s.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeRefStore) FindApplication(ctx context.Context, userID, id uuid.UUID) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.UserID == userID && a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *fakeRefStore) CreateApplication(ctx context.Context, a *model.Application) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.apps {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return nil, ErrDuplicate
		}
	}
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.apps = append(s.apps, created)
	return &created, nil
}

func (s *fakeRefStore) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, a := range s.apps {
		if a.UserID == userID && a.ID == id {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeRefStore) UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, status, note string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.apps {
		if a.UserID != userID || a.ID != id {
			continue
		}
		s.history = append(s.history, model.StatusHistory{
			ID:            uuid.New(),
			ApplicationID: id,
			FromStatus:    a.Status,
			ToStatus:      status,
			ChangedAt:     time.Now(),
			Note:          note,
		})
		s.apps[i].Status = status
		updated := s.apps[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *fakeRefStore) ApplicationHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StatusHistory
	for _, h := range s.history {
		if h.ApplicationID == applicationID {
			out = append(out, h)
		}
	}
	return out, nil
}

func bookmarksFor(userID uuid.UUID, jobIDs ...string) []model.Bookmark {
	out := make([]model.Bookmark, 0, len(jobIDs))
	for _, id := range jobIDs {
		out = append(out, model.Bookmark{ID: uuid.New(), UserID: userID, JobID: id, CreatedAt: time.Now()})
	}
	return out
}

func jobIDs[R model.Reference](items []model.Enriched[R]) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Reference.RefJobID())
	}
	return out
}
