package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// SearchFilters are the user's search inputs. Keyword and Location are
// matched by the job store; EmploymentType is matched here.
type SearchFilters struct {
	Keyword        string `json:"keyword"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
}

// SearchQuery is a filter set plus the requested page.
type SearchQuery struct {
	Filters SearchFilters
	Page    int
}

// WithFilters returns q with f applied. The page resets to 1 when the filters change.
func (q SearchQuery) WithFilters(f SearchFilters) SearchQuery {
	if f != q.Filters {
		q.Page = 1
	}
	q.Filters = f
	return q
}

// WithPage returns q pointed at page.
func (q SearchQuery) WithPage(page int) SearchQuery {
	q.Page = page
	return q
}

// SearchResultSet is one page of results plus what a pager needs to render.
type SearchResultSet struct {
	Jobs       []DisplayJob `json:"jobs"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	Pages      []PageItem   `json:"pages"`
}

// Searcher runs job searches against a JobStore and paginates the results.
type Searcher struct {
	jobs     JobStore
	pageSize int
	window   int
	now      func() time.Time
}

func NewSearcher(jobs JobStore, pageSize, window int) *Searcher {
	if pageSize <= 0 {
		pageSize = 6
	}
	if window <= 0 {
		window = 5
	}
	return &Searcher{jobs: jobs, pageSize: pageSize, window: window, now: time.Now}
}

func (s *Searcher) PageSize() int { return s.pageSize }

// Search fetches every job matching the store-side filters, drops jobs not
// matching the employment type, and returns the requested page. Store order
// is kept.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*SearchResultSet, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	jobs, err := s.jobs.SearchJobs(ctx, UpstreamQuery(q.Filters))
	if err != nil {
		return nil, fmt.Errorf("searching jobs: %w: %w", ErrUpstreamUnavailable, err)
	}

	matched := FilterByType(jobs, q.Filters.EmploymentType)
	log.Debug().
		Str("keyword", q.Filters.Keyword).
		Str("location", q.Filters.Location).
		Str("type", q.Filters.EmploymentType).
		Int("fetched", len(jobs)).
		Int("matched", len(matched)).
		Msg("Job search")

	totalPages := TotalPages(len(matched), s.pageSize)
	return &SearchResultSet{
		Jobs:       ToDisplayList(Paginate(matched, page, s.pageSize), s.now()),
		Total:      len(matched),
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
		Pages:      PageNumbers(page, totalPages, s.window),
	}, nil
}

// UpstreamQuery is the part of f the job store filters on, trimmed.
func UpstreamQuery(f SearchFilters) model.JobQuery {
	return model.JobQuery{
		Keyword:  strings.TrimSpace(f.Keyword),
		Location: strings.TrimSpace(f.Location),
	}
}

// FilterByType keeps the jobs offering employmentType, in order. The result
// is a new slice; jobs is never modified.
func FilterByType(jobs []model.Job, employmentType string) []model.Job {
	if IsAnyType(employmentType) {
		out := make([]model.Job, len(jobs))
		copy(out, jobs)
		return out
	}
	want := NormalizeEmploymentType(employmentType)
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		for _, t := range j.EmploymentTypes {
			if NormalizeEmploymentType(t) == want {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

// NormalizeEmploymentType case-folds v and strips whitespace and hyphens,
// so "Full-Time", "full time" and "FULLTIME" compare equal.
func NormalizeEmploymentType(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// MatchesType reports whether a and b name the same employment type.
func MatchesType(a, b string) bool {
	return NormalizeEmploymentType(a) == NormalizeEmploymentType(b)
}

// IsAnyType reports whether v is a "match anything" filter value.
func IsAnyType(v string) bool {
	switch NormalizeEmploymentType(v) {
	case "", "all", "alltypes":
		return true
	}
	return false
}
