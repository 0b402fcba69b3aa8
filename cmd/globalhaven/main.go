package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/pkg/config"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "globalhaven",
	Short:         "GlobalHaven community resource-sharing API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "failed to load configuration")
		}
		cfg = c

		if err := logger.InitLogger(&logger.LogConfig{
			Level:       cfg.Log.Level,
			Environment: cfg.Server.Env,
			ServiceName: cfg.ServiceName,
		}); err != nil {
			return eris.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.GetLogger().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.GetLogger().Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
