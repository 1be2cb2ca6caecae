package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid      = "pid"
	TagLatency  = "latency"
	TagStatus   = "status"
	TagMethod   = "method"
	TagPath     = "path"
	TagURL      = "url"
	TagIP       = "ip"
	TagUA       = "user_agent"
	TagBody     = "body"
	TagResBody  = "res_body"
	TagQuery    = "query"
	TagUserID   = "user_id"
	RequestID   = "request_id"
	maxBodySize = 2048
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag returns the value logged under a tag.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func truncate(body []byte) string {
	if len(body) > maxBodySize {
		return string(body[:maxBodySize]) + "..."
	}
	return string(body)
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, _ *data) interface{} {
			return c.OriginalURL()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUA: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if c.Get(fiber.HeaderContentType) != fiber.MIMEApplicationJSON {
				return ""
			}
			return truncate(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if c.Response().StatusCode() < fiber.StatusBadRequest {
				return ""
			}
			return truncate(c.Response().Body())
		},
		TagQuery: func(c *fiber.Ctx, _ *data) interface{} {
			return string(c.Request().URI().QueryString())
		},
		TagUserID: func(c *fiber.Ctx, _ *data) interface{} {
			if userID, ok := c.Locals(TagUserID).(string); ok {
				return userID
			}
			return ""
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			if id, ok := c.Locals("requestid").(string); ok && id != "" {
				return id
			}
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
	}
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}
