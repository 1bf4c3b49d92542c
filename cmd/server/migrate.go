package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/jobseeker-api/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		s, err := openStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer s.close()

		versions, err := s.migrate(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied migrations: %v\n", versions)
		return nil
	},
}
