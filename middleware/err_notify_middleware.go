package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotification struct {
	Code      int    `json:"code"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	UserID    string `json:"user_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

var notifyClient = &http.Client{Timeout: 5 * time.Second}

// ErrNotify отправляет на вебхук сведения об ответах 5xx
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		var resp struct {
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &resp); unmErr != nil {
			resp.Message = string(c.Response().Body())
		}
		n := errNotification{
			Code:      statusCode,
			Method:    c.Method(),
			Path:      c.OriginalURL(),
			UserID:    GetUserID(c),
			RequestID: resp.RequestID,
			Error:     resp.Message,
		}
		if r := c.Route(); r != nil {
			n.Path = r.Path
		}
		go sendErrNotification(addr, n)
		return err
	}
}

func sendErrNotification(addr string, n errNotification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.WithError(err).Warn("ошибка подготовки уведомления об ошибке")
		return
	}
	resp, err := notifyClient.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).Warn("ошибка отправки уведомления об ошибке")
		return
	}
	resp.Body.Close()
}
