package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

var newUser service.RegisterInput

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register a user directly in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		store, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		user, err := newService(cfg, store, log).Register(cmd.Context(), newUser)
		if err != nil {
			return err
		}

		log.Info("User created", zap.String("user_id", user.ID), zap.String("username", user.Username))
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.Username, "username", "", "username")
	createUserCmd.Flags().StringVar(&newUser.Email, "email", "", "email address")
	createUserCmd.Flags().StringVar(&newUser.Password, "password", "", "password")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createUserCmd)
}
