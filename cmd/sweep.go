package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"trip-approval-backend/config"
	"trip-approval-backend/initializers"
	"trip-approval-backend/lib/maintenance"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Однократный запуск ежедневного обслуживания",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.InitConfig()
		initializers.InitLogger()
		initializers.InitDBConnection()
		maintenance.NewHandler()
		result, err := maintenance.Instance.RunSweep(context.Background())
		if err != nil {
			return err
		}
		log.
			WithField("bonus_resets", result.BonusResets).
			WithField("expirations", result.Expirations).
			WithField("failures", result.Failures).
			Info("обслуживание завершено")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
