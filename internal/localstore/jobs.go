package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/jobseeker-api/internal/model"
)

const jobColumns = `id, title, company_id, company_name, company_logo, location, posted_at,
	salary_min, salary_max, salary_currency, skills, employment_types, description`

func scanJob(row scanner) (*model.Job, error) {
	var (
		j         model.Job
		postedAt  sql.NullInt64
		salaryMin sql.NullFloat64
		salaryMax sql.NullFloat64
		currency  string
		skills    string
		types     string
	)
	err := row.Scan(&j.ID, &j.Title, &j.CompanyID, &j.CompanyName, &j.CompanyLogo, &j.Location,
		&postedAt, &salaryMin, &salaryMax, &currency, &skills, &types, &j.Description)
	if err != nil {
		return nil, err
	}
	if postedAt.Valid {
		j.PostedAt = fromMillis(postedAt.Int64)
	}
	if salaryMin.Valid || salaryMax.Valid {
		j.Salary = &model.SalaryRange{Min: salaryMin.Float64, Max: salaryMax.Float64, Currency: currency}
	}
	if j.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	if j.EmploymentTypes, err = decodeList(types); err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJob returns the job with id, or nil if it does not exist.
func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding job: %w", err)
	}
	return j, nil
}

// GetCompany returns the company with id, or nil if it does not exist.
func (s *Store) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var c model.Company
	err := s.db.QueryRowContext(ctx, `SELECT id, name, logo FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &c, nil
}

// SearchJobs matches keyword against title, company and skills, and location
// against location. Newest first.
func (s *Store) SearchJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1 = 1`
	var args []any
	if q.Keyword != "" {
		pattern := likePattern(q.Keyword)
		query += ` AND (title LIKE ? ESCAPE '\' OR company_name LIKE ? ESCAPE '\' OR skills LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern, pattern)
	}
	if q.Location != "" {
		query += ` AND location LIKE ? ESCAPE '\'`
		args = append(args, likePattern(q.Location))
	}
	query += ` ORDER BY posted_at IS NULL, posted_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return jobs, rows.Err()
}

// UpsertJob inserts or replaces a job.
func (s *Store) UpsertJob(ctx context.Context, j *model.Job) error {
	var salaryMin, salaryMax sql.NullFloat64
	var currency string
	if j.Salary != nil {
		salaryMin = sql.NullFloat64{Float64: j.Salary.Min, Valid: true}
		salaryMax = sql.NullFloat64{Float64: j.Salary.Max, Valid: true}
		currency = j.Salary.Currency
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.CompanyID, j.CompanyName, j.CompanyLogo, j.Location, nullMillis(&j.PostedAt),
		salaryMin, salaryMax, currency, encodeList(j.Skills), encodeList(j.EmploymentTypes), j.Description,
	)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", j.ID, err)
	}
	return nil
}

// UpsertCompany inserts or replaces a company.
func (s *Store) UpsertCompany(ctx context.Context, c *model.Company) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO companies (id, name, logo) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Logo)
	if err != nil {
		return fmt.Errorf("upserting company %s: %w", c.ID, err)
	}
	return nil
}

// DeleteJob removes a job. References to it are left in place.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
