package service

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// DisplayJob is the read-only, formatted projection of a job sent to lists and cards.
type DisplayJob struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	CompanyName     string             `json:"companyName"`
	CompanyLogo     string             `json:"companyLogo,omitempty"`
	CompanyInitial  string             `json:"companyInitial"`
	Location        string             `json:"location"`
	PostedAt        time.Time          `json:"postedAt"`
	PostedAgo       string             `json:"postedAgo"`
	Salary          *model.SalaryRange `json:"salaryRange,omitempty"`
	SalaryText      string             `json:"salaryText,omitempty"`
	Skills          []string           `json:"skills"`
	EmploymentTypes []string           `json:"employmentTypes"`
	Description     string             `json:"description"`
}

// salaryUnit is the divisor applied to stored salary amounts for display.
const salaryUnit = 1_000_000

// ToDisplay projects a job relative to now.
func ToDisplay(job model.Job, now time.Time) DisplayJob {
	skills := job.Skills
	if skills == nil {
		skills = []string{}
	}
	types := job.EmploymentTypes
	if types == nil {
		types = []string{}
	}

	return DisplayJob{
		ID:              job.ID,
		Title:           job.Title,
		CompanyName:     job.CompanyName,
		CompanyLogo:     job.CompanyLogo,
		CompanyInitial:  CompanyInitial(job.CompanyName),
		Location:        job.Location,
		PostedAt:        job.PostedAt,
		PostedAgo:       PostedAgo(job.PostedAt, now),
		Salary:          job.Salary,
		SalaryText:      FormatSalary(job.Salary),
		Skills:          skills,
		EmploymentTypes: types,
		Description:     job.Description,
	}
}

// ToDisplayList projects jobs in order. Never returns nil.
func ToDisplayList(jobs []model.Job, now time.Time) []DisplayJob {
	out := make([]DisplayJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ToDisplay(j, now))
	}
	return out
}

// PostedAgo renders postedAt relative to now, e.g. "3 days ago".
// An unknown posting time renders as "".
func PostedAgo(postedAt, now time.Time) string {
	if postedAt.IsZero() {
		return ""
	}
	if postedAt.After(now) {
		return "just now"
	}
	return humanize.RelTime(postedAt, now, "ago", "from now")
}

// FormatSalary renders amounts in millions with one decimal only when needed,
// prefixed by the currency code: "IDR 5M - 7.5M".
func FormatSalary(s *model.SalaryRange) string {
	if s == nil || (s.Min <= 0 && s.Max <= 0) {
		return ""
	}

	var amount string
	switch {
	case s.Min > 0 && s.Max > 0 && s.Min != s.Max:
		amount = formatMillions(s.Min) + " - " + formatMillions(s.Max)
	case s.Min > 0:
		amount = formatMillions(s.Min)
	default:
		amount = formatMillions(s.Max)
	}

	if s.Currency == "" {
		return amount
	}
	return strings.ToUpper(s.Currency) + " " + amount
}

// formatMillions keeps one decimal whenever v is not a whole number of
// millions, even if it rounds to ".0".
func formatMillions(v float64) string {
	prec := 1
	if math.Mod(v, salaryUnit) == 0 {
		prec = 0
	}
	return strconv.FormatFloat(v/salaryUnit, 'f', prec, 64) + "M"
}

// CompanyInitial is the logo fallback: the upper-cased first letter of the name.
func CompanyInitial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
