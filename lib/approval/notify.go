package approval

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/lib/smtp"
	usersstore "trip-approval-backend/lib/users/store"
	"trip-approval-backend/models"
)

type Notification struct {
	RequestID   string
	Kind        models.RequestKind
	RequesterID string
	Status      models.RequestStatus
	Reason      string
}

// Notifier вызывается после фиксации транзакции, ошибки только логируются
type Notifier interface {
	NotifyDecision(n Notification)
}

func NewMailNotifier(conn *gorm.DB, sender string) Notifier {
	return mailNotifier{
		usersStore: usersstore.NewInstance(conn),
		sender:     sender,
	}
}

type mailNotifier struct {
	usersStore usersstore.Provider
	sender     string
}

func (m mailNotifier) NotifyDecision(n Notification) {
	logger := log.
		WithField("request_id", n.RequestID).
		WithField("requester_id", n.RequesterID)
	if smtp.Instance == nil {
		return
	}
	user, err := m.usersStore.GetByID(n.RequesterID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения автора заявки для уведомления")
		return
	}
	if user == nil || user.Email == "" {
		return
	}
	subject, message := decisionMessage(n, user.GetFullName())
	err = smtp.Instance.SendEMail(m.sender, user.Email, message, subject)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления о решении")
	}
}

func decisionMessage(n Notification, fullName string) (subject, message string) {
	kind := "Командировка"
	if n.Kind == models.AdminRequestKind {
		kind = "Административная заявка"
	}
	switch n.Status {
	case models.StatusApproved:
		subject = "Заявка согласована"
	case models.StatusRejected:
		subject = "Заявка отклонена"
	default:
		subject = "Изменен статус заявки"
	}
	message = fmt.Sprintf("%s, добрый день.\r\n%s %s: %s.", fullName, kind, n.RequestID, subject)
	if n.Reason != "" {
		message += fmt.Sprintf("\r\nКомментарий: %s", n.Reason)
	}
	return subject, message
}
