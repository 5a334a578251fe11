package cli

import (
	"github.com/spf13/cobra"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
	"healthtrack-server/internal/seed"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := models.Migrate(db); err != nil {
				return err
			}
			log.Info("migration complete")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := models.Migrate(db); err != nil {
				return err
			}
			return seed.Run(cmd.Context(), repository.NewUserRepository(db), repository.NewAppointmentRepository(db), log)
		},
	}
}
