package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/photodit/photodit/internal/backup"
	"github.com/photodit/photodit/internal/config"
	"github.com/photodit/photodit/internal/store/postgres"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all content documents and quote requests as JSONL to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		return backup.ExportJSONL(cmd.Context(), store, os.Stdout)
	},
}
