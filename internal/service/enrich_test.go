package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
)

func TestEnrichDropsDanglingReferences(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(model.Job{ID: "A", Title: "Backend Engineer"})
	e := NewEnricher(store, 4)

	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "A", "B"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("EnrichBookmarks() returned %d items, want 1", len(got))
	}
	if got[0].Reference.JobID != "A" || got[0].Job == nil || got[0].Job.Title != "Backend Engineer" {
		t.Errorf("EnrichBookmarks()[0] = %+v, want job A with details", got[0])
	}
}

func TestEnrichPreservesInputOrder(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(
		model.Job{ID: "j1"}, model.Job{ID: "j2"}, model.Job{ID: "j4"}, model.Job{ID: "j5"},
	)
	// Later ids answer first so completion order differs from input order.
	delays := map[string]time.Duration{"j1": 30 * time.Millisecond, "j2": 20 * time.Millisecond, "j5": 10 * time.Millisecond}
	base := store.jobs
	store.getJobFn = func(ctx context.Context, id string) (*model.Job, error) {
		time.Sleep(delays[id])
		j, ok := base[id]
		if !ok {
			return nil, nil
		}
		return &j, nil
	}

	e := NewEnricher(store, 8)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "j5", "j3", "j1", "j4", "j2"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	want := []string{"j5", "j1", "j4", "j2"}
	if ids := jobIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("EnrichBookmarks() order = %v, want %v", ids, want)
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(model.Job{ID: "A", CompanyID: "c1", CompanyName: "old"}, model.Job{ID: "C"})
	store.companies["c1"] = model.Company{ID: "c1", Name: "Acme", Logo: "acme.png"}
	e := NewEnricher(store, 2)
	refs := bookmarksFor(user, "A", "B", "C")

	first, err := e.EnrichBookmarks(ctx, refs)
	if err != nil {
		t.Fatalf("first EnrichBookmarks() error = %v", err)
	}
	second, err := e.EnrichBookmarks(ctx, refs)
	if err != nil {
		t.Fatalf("second EnrichBookmarks() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("EnrichBookmarks() not idempotent:\n first  %+v\n second %+v", first, second)
	}
	if store.jobs["A"].CompanyName != "old" {
		t.Errorf("store job mutated: CompanyName = %q, want %q", store.jobs["A"].CompanyName, "old")
	}
}

func TestEnrichEmptyInputSkipsLookups(t *testing.T) {
	store := newFakeJobStore()
	e := NewEnricher(store, 4)

	got, err := e.EnrichBookmarks(ctx, nil)
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("EnrichBookmarks(nil) = %#v, want empty non-nil slice", got)
	}
	if n := store.jobCalls.Load(); n != 0 {
		t.Errorf("job lookups = %d, want 0", n)
	}
}

func TestEnrichLooksUpEachJobOnce(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(model.Job{ID: "A", CompanyID: "c1"}, model.Job{ID: "B", CompanyID: "c1"})
	store.companies["c1"] = model.Company{ID: "c1", Name: "Acme"}
	e := NewEnricher(store, 4)

	refs := append(bookmarksFor(user, "A", "B"), bookmarksFor(user, "A")...)
	got, err := e.EnrichBookmarks(ctx, refs)
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("EnrichBookmarks() returned %d items, want 3", len(got))
	}
	if n := store.jobCalls.Load(); n != 2 {
		t.Errorf("job lookups = %d, want 2", n)
	}
	if n := store.companyCalls.Load(); n != 1 {
		t.Errorf("company lookups = %d, want 1", n)
	}
}

func TestEnrichFansOutConcurrently(t *testing.T) {
	user := uuid.New()
	const n = 4
	store := newFakeJobStore()
	var (
		mu      sync.Mutex
		arrived int
	)
	release := make(chan struct{})
	store.getJobFn = func(ctx context.Context, id string) (*model.Job, error) {
		mu.Lock()
		arrived++
		if arrived == n {
			close(release)
		}
		mu.Unlock()
		// Every lookup blocks until all n are in flight at once.
		select {
		case <-release:
		case <-time.After(2 * time.Second):
			return nil, errors.New("lookups were not concurrent")
		}
		return &model.Job{ID: id}, nil
	}

	e := NewEnricher(store, n)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if len(got) != n {
		t.Errorf("EnrichBookmarks() returned %d items, want %d", len(got), n)
	}
}

func TestEnrichExcludesFailedMembers(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore()
	store.getJobFn = func(ctx context.Context, id string) (*model.Job, error) {
		if id == "bad" {
			return nil, errors.New("connection reset")
		}
		return &model.Job{ID: id}, nil
	}

	e := NewEnricher(store, 4)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "ok1", "bad", "ok2"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if ids := jobIDs(got); !reflect.DeepEqual(ids, []string{"ok1", "ok2"}) {
		t.Errorf("EnrichBookmarks() = %v, want [ok1 ok2]", ids)
	}
}

func TestEnrichTotalFailureIsUpstreamUnavailable(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore()
	store.getJobFn = func(ctx context.Context, id string) (*model.Job, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	e := NewEnricher(store, 4)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "A", "B"))
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("EnrichBookmarks() error = %v, want ErrUpstreamUnavailable", err)
	}
	if got != nil {
		t.Errorf("EnrichBookmarks() = %v, want nil on batch failure", got)
	}
}

func TestEnrichNotFoundErrorIsAMiss(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore()
	store.getJobFn = func(ctx context.Context, id string) (*model.Job, error) {
		return nil, ErrNotFound
	}

	e := NewEnricher(store, 4)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "A"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("EnrichBookmarks() = %v, want empty", got)
	}
}

func TestEnrichAppliesCompanyFields(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(
		model.Job{ID: "A", CompanyID: "c1", CompanyName: "stale", CompanyLogo: "stale.png"},
		model.Job{ID: "B", CompanyID: "c2", CompanyName: "Kept Inc"},
	)
	store.companies["c1"] = model.Company{ID: "c1", Name: "Acme", Logo: "acme.png"}
	store.getCompanyFn = func(ctx context.Context, id string) (*model.Company, error) {
		if id == "c2" {
			return nil, errors.New("timeout")
		}
		c := store.companies[id]
		return &c, nil
	}

	e := NewEnricher(store, 4)
	got, err := e.EnrichBookmarks(ctx, bookmarksFor(user, "A", "B"))
	if err != nil {
		t.Fatalf("EnrichBookmarks() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("EnrichBookmarks() returned %d items, want 2", len(got))
	}
	if got[0].Job.CompanyName != "Acme" || got[0].Job.CompanyLogo != "acme.png" {
		t.Errorf("job A company = %q/%q, want Acme/acme.png", got[0].Job.CompanyName, got[0].Job.CompanyLogo)
	}
	if got[1].Job.CompanyName != "Kept Inc" {
		t.Errorf("job B CompanyName = %q, want %q", got[1].Job.CompanyName, "Kept Inc")
	}
}

func TestEnrichApplicationsNormalizesTimestamps(t *testing.T) {
	user := uuid.New()
	store := newFakeJobStore(model.Job{ID: "A"})
	e := NewEnricher(store, 4)

	jakarta := time.FixedZone("WIB", 7*3600)
	applied := time.Date(2024, 3, 1, 9, 0, 0, 0, jakarta)
	apps := []model.Application{{ID: uuid.New(), UserID: user, JobID: "A", Status: model.StatusPending, AppliedAt: &applied, CreatedAt: applied}}

	got, err := e.EnrichApplications(ctx, apps)
	if err != nil {
		t.Fatalf("EnrichApplications() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("EnrichApplications() returned %d items, want 1", len(got))
	}
	ref := got[0].Reference
	if ref.CreatedAt.Location() != time.UTC || ref.AppliedAt.Location() != time.UTC {
		t.Errorf("timestamps not UTC: created %v applied %v", ref.CreatedAt, ref.AppliedAt)
	}
	if !ref.AppliedAt.Equal(applied) {
		t.Errorf("AppliedAt = %v, want instant %v", ref.AppliedAt, applied)
	}
	if apps[0].AppliedAt.Location() != jakarta {
		t.Error("input application was modified")
	}
}

func TestEnricherJob(t *testing.T) {
	store := newFakeJobStore(model.Job{ID: "A", Title: "QA"})
	e := NewEnricher(store, 0)

	job, err := e.Job(ctx, "A")
	if err != nil || job == nil || job.Title != "QA" {
		t.Fatalf("Job(A) = %v, %v; want QA job", job, err)
	}
	job, err = e.Job(ctx, "missing")
	if err != nil || job != nil {
		t.Errorf("Job(missing) = %v, %v; want nil, nil", job, err)
	}
}
