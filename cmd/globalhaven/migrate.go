package main

import (
	"github.com/spf13/cobra"

	"github.com/lc3t35/GlobalHaven/pkg/config"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()
		if cfg.DB.Driver == config.StoreDriverMemory {
			log.Info("Nothing to migrate for the in-memory store")
			return nil
		}

		store, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		log.Info("Database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
