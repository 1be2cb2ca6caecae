package middleware

import (
	"encoding/json"
	"time"

	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const errNotifyTimeout = 5 * time.Second

type errReport struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

// ErrNotify reports server errors to an external collector at addr.
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		code := c.Response().StatusCode()
		if code < fiber.StatusInternalServerError {
			return err
		}
		report := errReport{
			Code:   code,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  failureMessage(c.Response().Body()),
		}
		if r := c.Route(); r != nil {
			report.Path = r.Path
		}
		go sendErrReport(addr, report)
		return err
	}
}

func failureMessage(body []byte) string {
	var resp apimodels.Response
	if json.Unmarshal(body, &resp) == nil && resp.Message != "" {
		return resp.Message
	}
	return string(body)
}

func sendErrReport(addr string, report errReport) {
	agent := fiber.Post(addr).JSON(report).Timeout(errNotifyTimeout)
	if err := agent.Parse(); err != nil {
		log.WithError(err).Warn("error report request build failed")
		return
	}
	code, _, errs := agent.Bytes()
	if len(errs) != 0 {
		log.WithError(errs[0]).Warn("error report delivery failed")
		return
	}
	if code >= fiber.StatusBadRequest {
		log.WithField("status", code).Warn("error report rejected")
	}
}
