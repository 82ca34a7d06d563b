package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"trip-approval-backend/config"
	"trip-approval-backend/initializers"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Запуск HTTP сервера",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		initializers.InitAllServices(ctx)
		app := setupRoutes(*initializers.LoggerConfig)

		// gracefully shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-c:
			case <-ctx.Done():
				return
			}
			log.Info("Gracefully shutting down...")
			cancel()
			if err := app.Shutdown(); err != nil {
				log.WithError(err).Error("Error when try gracefully shutting down")
			}
			time.Sleep(time.Second)
			log.Info("Gracefully shutting down finished")
		}()

		// run HTTP server
		if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
			cancel()
			wg.Wait()
			return err
		}

		wg.Wait()
		log.Info("HTTP server successfully stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
