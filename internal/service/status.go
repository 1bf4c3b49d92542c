package service

import (
	"encoding/json"
	"sort"
)

// StatusSet is an immutable snapshot of which jobs in view the user has
// bookmarked or applied to. Build a new one per view; With* methods return copies.
type StatusSet struct {
	bookmarked map[string]struct{}
	applied    map[string]string // job id -> application status
}

// EmptyStatus is the snapshot for anonymous viewers.
func EmptyStatus() StatusSet {
	return StatusSet{
		bookmarked: map[string]struct{}{},
		applied:    map[string]string{},
	}
}

func (s StatusSet) IsBookmarked(jobID string) bool {
	_, ok := s.bookmarked[jobID]
	return ok
}

func (s StatusSet) IsApplied(jobID string) bool {
	_, ok := s.applied[jobID]
	return ok
}

// ApplicationStatus returns the status of the user's application to jobID, or "".
func (s StatusSet) ApplicationStatus(jobID string) string {
	return s.applied[jobID]
}

// Bookmarked returns the bookmarked job ids, sorted.
func (s StatusSet) Bookmarked() []string {
	ids := make([]string, 0, len(s.bookmarked))
	for id := range s.bookmarked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Applied returns the applied-to job ids, sorted.
func (s StatusSet) Applied() []string {
	ids := make([]string, 0, len(s.applied))
	for id := range s.applied {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithBookmarked returns a copy with jobID's bookmark state set.
func (s StatusSet) WithBookmarked(jobID string, on bool) StatusSet {
	next := s.clone()
	if on {
		next.bookmarked[jobID] = struct{}{}
	} else {
		delete(next.bookmarked, jobID)
	}
	return next
}

// WithApplied returns a copy with jobID's application state set.
// An empty status removes the application.
func (s StatusSet) WithApplied(jobID, status string) StatusSet {
	next := s.clone()
	if status != "" {
		next.applied[jobID] = status
	} else {
		delete(next.applied, jobID)
	}
	return next
}

func (s StatusSet) clone() StatusSet {
	next := StatusSet{
		bookmarked: make(map[string]struct{}, len(s.bookmarked)+1),
		applied:    make(map[string]string, len(s.applied)+1),
	}
	for id := range s.bookmarked {
		next.bookmarked[id] = struct{}{}
	}
	for id, status := range s.applied {
		next.applied[id] = status
	}
	return next
}

func (s StatusSet) MarshalJSON() ([]byte, error) {
	statuses := make(map[string]string, len(s.applied))
	for id, status := range s.applied {
		statuses[id] = status
	}
	return json.Marshal(struct {
		Bookmarked []string          `json:"bookmarked"`
		Applied    []string          `json:"applied"`
		Statuses   map[string]string `json:"applicationStatus"`
	}{s.Bookmarked(), s.Applied(), statuses})
}

// Attempt applies next speculatively: it is returned if commit succeeds,
// otherwise prev is returned together with the commit error.
func Attempt(prev, next StatusSet, commit func() error) (StatusSet, error) {
	if err := commit(); err != nil {
		return prev, err
	}
	return next, nil
}
