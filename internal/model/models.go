package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a job seeker profile
type User struct {
	ID          uuid.UUID `json:"id"`
	FirebaseUID string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Headline    string    `json:"headline"`
	Location    string    `json:"location"`
	Skills      []string  `json:"skills"`
	ResumeRef   string    `json:"resumeRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ── Job entity store ─────────────────────────────────

// SalaryRange amounts are in whole currency units (e.g. 7500000 IDR)
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Job is a full posting owned by the upstream job store. Read-only here.
type Job struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	CompanyID       string       `json:"companyId,omitempty"`
	CompanyName     string       `json:"companyName"`
	CompanyLogo     string       `json:"companyLogo,omitempty"`
	Location        string       `json:"location"`
	PostedAt        time.Time    `json:"postedAt"`
	Salary          *SalaryRange `json:"salaryRange,omitempty"`
	Skills          []string     `json:"skills"`
	EmploymentTypes []string     `json:"employmentTypes"`
	Description     string       `json:"description"`
}

// Company holds the display fields joined onto a job
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// JobQuery holds the filters the job store evaluates itself
type JobQuery struct {
	Keyword  string
	Location string
}

// ── References ───────────────────────────────────────

// Reference is a small record pointing at a job by id
type Reference interface {
	RefJobID() string
}

// Bookmark marks a job as saved by a user
type Bookmark struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b Bookmark) RefJobID() string { return b.JobID }

// Application represents a submitted job application
type Application struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	JobID       string     `json:"jobId"`
	Status      string     `json:"status"`
	ResumeRef   string     `json:"resumeRef"`
	CoverLetter string     `json:"coverLetter,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (a Application) RefJobID() string { return a.JobID }

// Valid application statuses
const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusInterview = "interview"
	StatusOffered   = "offered"
	StatusRejected  = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusInterview, StatusOffered, StatusRejected:
		return true
	}
	return false
}

// StatusHistory tracks application stage changes for the timeline
type StatusHistory struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"applicationId"`
	FromStatus    string    `json:"fromStatus"`
	ToStatus      string    `json:"toStatus"`
	ChangedAt     time.Time `json:"changedAt"`
	Note          string    `json:"note,omitempty"`
}

// Enriched is a reference joined with its job. Job is never nil in
// collections returned to users; dangling references are dropped.
type Enriched[R Reference] struct {
	Reference R    `json:"reference"`
	Job       *Job `json:"jobDetails"`
}
