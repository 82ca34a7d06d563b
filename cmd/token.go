package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"trip-approval-backend/config"
	"trip-approval-backend/db"
	"trip-approval-backend/initializers"
	usersstore "trip-approval-backend/lib/users/store"
	authutils "trip-approval-backend/lib/utils/auth-utils"
	"trip-approval-backend/models"
)

// токен выдается внешним сервисом авторизации, команда нужна для отладки и интеграционных проверок
var tokenCmd = &cobra.Command{
	Use:   "token [user id]",
	Short: "Выпуск JWT для пользователя",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		activeRole, _ := cmd.Flags().GetString("active-role")
		config.InitConfig()
		initializers.InitLogger()
		initializers.InitDBConnectionWithMigrate(false)
		user, err := usersstore.NewInstance(db.DB).GetByID(args[0])
		if err != nil {
			return errors.Wrap(err, "ошибка получения пользователя")
		}
		if user == nil {
			return errors.Errorf("пользователь %s не найден", args[0])
		}
		token, err := authutils.GetToken(config.Conf.Auth.JWTSecret,
			time.Duration(config.Conf.Auth.JWTExpireInSec)*time.Second,
			user.ID, user.GetFullName(), user.Role, models.UserRole(activeRole))
		if err != nil {
			return errors.Wrap(err, "ошибка формирования токена")
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("active-role", "", "временная роль, только ниже основной")
}
