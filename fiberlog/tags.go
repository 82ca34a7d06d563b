package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	authutils "trip-approval-backend/lib/utils/auth-utils"
)

const (
	TagPid           = "pid"
	TagReferer       = "referer"
	TagProtocol      = "protocol"
	TagIP            = "ip"
	TagIPs           = "ips"
	TagHost          = "host"
	TagMethod        = "method"
	TagPath          = "path"
	TagRoute         = "route"
	TagURL           = "url"
	TagUA            = "ua"
	TagLatency       = "latency"
	TagStatus        = "status"
	TagBody          = "body"
	TagResBody       = "resBody"
	TagBytesSent     = "bytesSent"
	TagBytesReceived = "bytesReceived"
	TagUserID        = "user_id"
	RequestID        = "request_id"
)

// тело запроса и ответа в журнал пишется не длиннее
const maxBodyLogSize = 4096

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля журнала для тега
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func truncateBody(body []byte) string {
	if len(body) > maxBodyLogSize {
		return string(body[:maxBodyLogSize]) + "..."
	}
	return string(body)
}

// getFuncTagMap только теги из конфигурации, неизвестные пропускаются
func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagReferer: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderReferer)
		},
		TagProtocol: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Protocol()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagIPs: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderXForwardedFor)
		},
		TagHost: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Hostname()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagRoute: func(c *fiber.Ctx, _ *data) interface{} {
			if r := c.Route(); r != nil {
				return r.Path
			}
			return ""
		},
		TagURL: func(c *fiber.Ctx, _ *data) interface{} {
			return c.OriginalURL()
		},
		TagUA: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			return truncateBody(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			return truncateBody(c.Response().Body())
		},
		TagBytesSent: func(c *fiber.Ctx, _ *data) interface{} {
			return len(c.Response().Body())
		},
		TagBytesReceived: func(c *fiber.Ctx, _ *data) interface{} {
			return len(c.Request().Body())
		},
		TagUserID: func(c *fiber.Ctx, _ *data) interface{} {
			return authutils.GetCurrentUser(c).ID
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID, c.Get(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
