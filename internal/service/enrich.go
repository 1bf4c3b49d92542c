package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/model"
	"golang.org/x/sync/errgroup"
)

// Enricher joins references against the job and company stores.
//
// Lookups are keyed by distinct id and issued concurrently: first every job,
// then every company referenced by a found job. A missing job drops its
// references. A failed lookup drops only its own references unless every job
// lookup failed, in which case the whole batch fails with ErrUpstreamUnavailable.
type Enricher struct {
	jobs  JobStore
	limit int
}

// NewEnricher creates an Enricher. limit bounds in-flight lookups (default 8 if <= 0).
func NewEnricher(jobs JobStore, limit int) *Enricher {
	if limit <= 0 {
		limit = 8
	}
	return &Enricher{jobs: jobs, limit: limit}
}

// EnrichReferences returns refs joined with their jobs, in input order,
// without the references whose job no longer exists.
func EnrichReferences[R model.Reference](ctx context.Context, e *Enricher, refs []R) ([]model.Enriched[R], error) {
	if len(refs) == 0 {
		return []model.Enriched[R]{}, nil
	}

	jobs, err := e.fetchJobs(ctx, distinctJobIDs(refs))
	if err != nil {
		return nil, err
	}

	out := make([]model.Enriched[R], 0, len(refs))
	for _, ref := range refs {
		job, ok := jobs[ref.RefJobID()]
		if !ok {
			continue
		}
		out = append(out, model.Enriched[R]{Reference: ref, Job: job})
	}
	return out, nil
}

// EnrichBookmarks normalizes timestamps and enriches bookmarks.
func (e *Enricher) EnrichBookmarks(ctx context.Context, bookmarks []model.Bookmark) ([]model.Enriched[model.Bookmark], error) {
	norm := make([]model.Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		b.CreatedAt = b.CreatedAt.UTC()
		norm[i] = b
	}
	return EnrichReferences(ctx, e, norm)
}

// EnrichApplications normalizes timestamps and enriches applications.
func (e *Enricher) EnrichApplications(ctx context.Context, apps []model.Application) ([]model.Enriched[model.Application], error) {
	norm := make([]model.Application, len(apps))
	for i, a := range apps {
		a.CreatedAt = a.CreatedAt.UTC()
		a.UpdatedAt = a.UpdatedAt.UTC()
		if a.AppliedAt != nil {
			t := a.AppliedAt.UTC()
			a.AppliedAt = &t
		}
		norm[i] = a
	}
	return EnrichReferences(ctx, e, norm)
}

// Job returns a single job with company fields applied, or (nil, nil) if it does not exist.
func (e *Enricher) Job(ctx context.Context, id string) (*model.Job, error) {
	if id == "" {
		return nil, nil
	}
	jobs, err := e.fetchJobs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return jobs[id], nil
}

type jobLookup struct {
	job *model.Job
	err error
}

type companyLookup struct {
	company *model.Company
	err     error
}

// fetchJobs resolves ids concurrently. The returned map holds copies, so the
// company overlay never writes to values owned by the store.
func (e *Enricher) fetchJobs(ctx context.Context, ids []string) (map[string]*model.Job, error) {
	found := make(map[string]*model.Job, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	results := make([]jobLookup, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(e.limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			job, err := e.jobs.GetJob(ctx, id)
			results[i] = jobLookup{job: job, err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	var firstErr error
	for i, r := range results {
		if r.err != nil && !errors.Is(r.err, ErrNotFound) {
			failed++
			if firstErr == nil {
				firstErr = r.err
			}
			log.Warn().Err(r.err).Str("jobId", ids[i]).Msg("Job lookup failed, excluding references")
			continue
		}
		if r.job == nil {
			continue
		}
		job := *r.job
		found[ids[i]] = &job
	}

	if failed == len(ids) {
		return nil, fmt.Errorf("looking up %d jobs: %w: %w", len(ids), ErrUpstreamUnavailable, firstErr)
	}

	e.applyCompanies(ctx, ids, found)
	return found, nil
}

// applyCompanies overlays company display fields. Company misses and
// failures keep the job's own company name and logo.
func (e *Enricher) applyCompanies(ctx context.Context, order []string, jobs map[string]*model.Job) {
	var companyIDs []string
	seen := make(map[string]struct{})
	for _, id := range order {
		job, ok := jobs[id]
		if !ok || job.CompanyID == "" {
			continue
		}
		if _, dup := seen[job.CompanyID]; dup {
			continue
		}
		seen[job.CompanyID] = struct{}{}
		companyIDs = append(companyIDs, job.CompanyID)
	}
	if len(companyIDs) == 0 {
		return
	}

	results := make([]companyLookup, len(companyIDs))
	g := new(errgroup.Group)
	g.SetLimit(e.limit)
	for i, id := range companyIDs {
		i, id := i, id
		g.Go(func() error {
			company, err := e.jobs.GetCompany(ctx, id)
			results[i] = companyLookup{company: company, err: err}
			return nil
		})
	}
	_ = g.Wait()

	companies := make(map[string]*model.Company, len(companyIDs))
	for i, r := range results {
		if r.err != nil {
			log.Warn().Err(r.err).Str("companyId", companyIDs[i]).Msg("Company lookup failed, keeping job company fields")
			continue
		}
		if r.company != nil {
			companies[companyIDs[i]] = r.company
		}
	}

	for _, job := range jobs {
		company, ok := companies[job.CompanyID]
		if !ok {
			continue
		}
		if company.Name != "" {
			job.CompanyName = company.Name
		}
		if company.Logo != "" {
			job.CompanyLogo = company.Logo
		}
	}
}

// distinctJobIDs returns the non-empty job ids of refs in first-seen order.
func distinctJobIDs[R model.Reference](refs []R) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ref.RefJobID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
