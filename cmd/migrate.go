package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"trip-approval-backend/config"
	"trip-approval-backend/initializers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Миграция схемы БД",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.InitConfig()
		initializers.InitLogger()
		initializers.InitDBConnectionWithMigrate(true)
		log.Info("Миграция БД выполнена")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
