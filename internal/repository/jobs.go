package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// JobRepo is the Postgres job entity store.
type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

const jobColumns = `
	id, title, company_id, company_name, company_logo, location, posted_at,
	salary_min, salary_max, salary_currency, skills, employment_types, description`

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		j         model.Job
		postedAt  *time.Time
		salaryMin *float64
		salaryMax *float64
		currency  string
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.CompanyID, &j.CompanyName, &j.CompanyLogo, &j.Location, &postedAt,
		&salaryMin, &salaryMax, &currency, &j.Skills, &j.EmploymentTypes, &j.Description,
	)
	if err != nil {
		return nil, err
	}
	if postedAt != nil {
		j.PostedAt = postedAt.UTC()
	}
	if salaryMin != nil || salaryMax != nil {
		j.Salary = &model.SalaryRange{Currency: currency}
		if salaryMin != nil {
			j.Salary.Min = *salaryMin
		}
		if salaryMax != nil {
			j.Salary.Max = *salaryMax
		}
	}
	return &j, nil
}

// GetJob returns a single job, or nil if it does not exist
func (r *JobRepo) GetJob(ctx context.Context, id string) (*model.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding job: %w", err)
	}
	return j, nil
}

// GetCompany returns a single company, or nil if it does not exist
func (r *JobRepo) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var c model.Company
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, logo FROM companies WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &c, nil
}

// SearchJobs matches keyword against title, company and skills, and location
// against location, newest first
func (r *JobRepo) SearchJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE true`
	var args []any
	argIdx := 1

	if q.Keyword != "" {
		query += fmt.Sprintf(` AND (title ILIKE $%d OR company_name ILIKE $%d
			OR EXISTS (SELECT 1 FROM unnest(skills) s WHERE s ILIKE $%d))`, argIdx, argIdx, argIdx)
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		argIdx++
	}
	if q.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(q.Location)+"%")
		argIdx++
	}
	query += " ORDER BY posted_at DESC NULLS LAST, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}
	return jobs, nil
}

// UpsertJob inserts or replaces a job
func (r *JobRepo) UpsertJob(ctx context.Context, j *model.Job) error {
	var salaryMin, salaryMax *float64
	var currency string
	if j.Salary != nil {
		salaryMin, salaryMax, currency = &j.Salary.Min, &j.Salary.Max, j.Salary.Currency
	}
	var postedAt *time.Time
	if !j.PostedAt.IsZero() {
		postedAt = &j.PostedAt
	}
	skills, types := nonNil(j.Skills), nonNil(j.EmploymentTypes)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, company_id = EXCLUDED.company_id,
			company_name = EXCLUDED.company_name, company_logo = EXCLUDED.company_logo,
			location = EXCLUDED.location, posted_at = EXCLUDED.posted_at,
			salary_min = EXCLUDED.salary_min, salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency, skills = EXCLUDED.skills,
			employment_types = EXCLUDED.employment_types, description = EXCLUDED.description
	`, j.ID, j.Title, j.CompanyID, j.CompanyName, j.CompanyLogo, j.Location, postedAt,
		salaryMin, salaryMax, currency, skills, types, j.Description,
	)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", j.ID, err)
	}
	return nil
}

// UpsertCompany inserts or replaces a company
func (r *JobRepo) UpsertCompany(ctx context.Context, c *model.Company) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO companies (id, name, logo) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, logo = EXCLUDED.logo
	`, c.ID, c.Name, c.Logo)
	if err != nil {
		return fmt.Errorf("upserting company %s: %w", c.ID, err)
	}
	return nil
}

// DeleteJob removes a job. References to it are left in place.
func (r *JobRepo) DeleteJob(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
