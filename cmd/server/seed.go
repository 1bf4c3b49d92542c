package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/jobseeker-api/internal/config"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// seedFile is the on-disk format accepted by the seed command
type seedFile struct {
	Companies []model.Company `json:"companies"`
	Jobs      []model.Job     `json:"jobs"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load jobs and companies from a JSON file",
	Long: `Load jobs and companies from a JSON file into the configured store.

Example:
  jobseeker-api seed --file ./testdata/jobs.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := readSeedFile(path)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		s, err := openStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer s.close()

		if err := seed(cmd.Context(), s.catalog, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d companies and %d jobs\n", len(data.Companies), len(data.Jobs))
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "", "path to a JSON file with companies and jobs")
}

func readSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	for i, j := range data.Jobs {
		if j.ID == "" || j.Title == "" {
			return nil, fmt.Errorf("job %d: id and title are required", i)
		}
	}
	return &data, nil
}

func seed(ctx context.Context, c catalog, data *seedFile) error {
	for i := range data.Companies {
		if err := c.UpsertCompany(ctx, &data.Companies[i]); err != nil {
			return fmt.Errorf("seeding company %s: %w", data.Companies[i].ID, err)
		}
	}
	for i := range data.Jobs {
		if err := c.UpsertJob(ctx, &data.Jobs[i]); err != nil {
			return fmt.Errorf("seeding job %s: %w", data.Jobs[i].ID, err)
		}
	}
	return nil
}
