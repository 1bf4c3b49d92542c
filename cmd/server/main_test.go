package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/jobseeker-api/internal/localstore"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSeed(t *testing.T) {
	path := writeSeed(t, `{
		"companies": [{"id": "c1", "name": "Acme"}],
		"jobs": [
			{"id": "j1", "title": "Go Engineer", "companyId": "c1", "location": "Jakarta",
			 "postedAt": "2026-10-01T08:00:00Z", "employmentTypes": ["Full-Time"]}
		]
	}`)

	data, err := readSeedFile(path)
	if err != nil {
		t.Fatalf("readSeedFile() error = %v", err)
	}

	store, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := seed(ctx, store, data); err != nil {
		t.Fatalf("seed() error = %v", err)
	}

	job, err := store.GetJob(ctx, "j1")
	if err != nil || job == nil {
		t.Fatalf("GetJob(j1) = %v, %v", job, err)
	}
	if job.Title != "Go Engineer" || job.PostedAt.Day() != 1 {
		t.Errorf("seeded job = %+v", job)
	}
	company, _ := store.GetCompany(ctx, "c1")
	if company == nil || company.Name != "Acme" {
		t.Errorf("seeded company = %+v", company)
	}
}

func TestReadSeedFileRejectsIncompleteJobs(t *testing.T) {
	path := writeSeed(t, `{"jobs": [{"id": "j1"}]}`)
	if _, err := readSeedFile(path); err == nil {
		t.Error("readSeedFile() accepted a job without a title")
	}
}

func TestSeedCommandRequiresFile(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"seed"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("seed without --file error = %v, want mention of required", err)
	}
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Applied migrations: [1]") {
		t.Errorf("migrate output = %q", got)
	}
}

var _ catalog = (*localstore.Store)(nil)
