package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmtp(t *testing.T) {
	t.Run(`message headers`, func(t *testing.T) {
		msg := buildMessage("noreply@test", "emp@test", "Заявка согласована", "Текст")
		require.True(t, strings.HasPrefix(msg, "From: noreply@test\r\n"))
		require.Contains(t, msg, "To: emp@test\r\n")
		require.Contains(t, msg, "Subject: Согласование командировок - Заявка согласована\r\n")
		require.True(t, strings.HasSuffix(msg, "\r\n\r\nТекст\r\n"))
	})

	t.Run(`not configured client skips sending`, func(t *testing.T) {
		require.NoError(t, Connect("", "", "", "", true))
		require.NoError(t, Instance.SendEMail("noreply@test", "emp@test", "Текст", "Тема"))
	})
}
