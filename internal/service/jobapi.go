package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// JobAPIClient is a JobStore backed by the remote job listing API.
type JobAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewJobAPIClient(baseURL, apiKey string) *JobAPIClient {
	return &JobAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// ── Job API response types ────────────────────────────

type apiEnvelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

type apiJob struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	CompanyID       string          `json:"companyId"`
	CompanyName     string          `json:"companyName"`
	CompanyLogo     string          `json:"companyLogo"`
	Location        string          `json:"location"`
	PostedAt        model.Timestamp `json:"postedAt"`
	Salary          *apiSalary      `json:"salaryRange"`
	Skills          []string        `json:"skills"`
	EmploymentTypes []string        `json:"employmentTypes"`
	Description     string          `json:"description"`
}

type apiSalary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type apiCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

func (j apiJob) toModel() model.Job {
	job := model.Job{
		ID:              j.ID,
		Title:           j.Title,
		CompanyID:       j.CompanyID,
		CompanyName:     j.CompanyName,
		CompanyLogo:     j.CompanyLogo,
		Location:        j.Location,
		PostedAt:        j.PostedAt.Time,
		Skills:          j.Skills,
		EmploymentTypes: j.EmploymentTypes,
		Description:     j.Description,
	}
	if j.Salary != nil && (j.Salary.Min > 0 || j.Salary.Max > 0) {
		job.Salary = &model.SalaryRange{Min: j.Salary.Min, Max: j.Salary.Max, Currency: j.Salary.Currency}
	}
	return job
}

// ── JobStore ──────────────────────────────────────────

func (c *JobAPIClient) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var env apiEnvelope[*apiJob]
	found, err := c.get(ctx, "/jobs/"+url.PathEscape(id), nil, &env)
	if err != nil {
		return nil, fmt.Errorf("fetching job %s: %w", id, err)
	}
	if !found || env.Data == nil {
		return nil, nil
	}
	job := env.Data.toModel()
	if job.ID == "" {
		job.ID = id
	}
	return &job, nil
}

func (c *JobAPIClient) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var env apiEnvelope[*apiCompany]
	found, err := c.get(ctx, "/companies/"+url.PathEscape(id), nil, &env)
	if err != nil {
		return nil, fmt.Errorf("fetching company %s: %w", id, err)
	}
	if !found || env.Data == nil {
		return nil, nil
	}
	return &model.Company{ID: id, Name: env.Data.Name, Logo: env.Data.Logo}, nil
}

// SearchJobs sends keyword and location as query parameters, omitting empty ones.
func (c *JobAPIClient) SearchJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	params := url.Values{}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.Location != "" {
		params.Set("location", q.Location)
	}

	var env apiEnvelope[[]apiJob]
	if _, err := c.get(ctx, "/jobs", params, &env); err != nil {
		return nil, fmt.Errorf("searching jobs: %w", err)
	}

	jobs := make([]model.Job, 0, len(env.Data))
	for _, j := range env.Data {
		jobs = append(jobs, j.toModel())
	}

	log.Info().
		Str("keyword", q.Keyword).
		Str("location", q.Location).
		Int("results", len(jobs)).
		Msg("Job API returned results")
	return jobs, nil
}

// get decodes a 200 response into out. A 404 reports found=false with no error.
// Other statuses become an *UpstreamError carrying the API's message.
func (c *JobAPIClient) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("calling job API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, &UpstreamError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("parsing job API response: %w", err)
	}
	return true, nil
}

func errorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		return env.Error
	}
	return ""
}
