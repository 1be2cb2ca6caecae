package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Config of the access log middleware.
type Config struct {
	// Logger defaults to the logrus standard logger.
	Logger *log.Logger
	// Tags selects the fields written for each request.
	Tags []string
	// Skip excludes requests from the access log, e.g. health checks.
	Skip func(path string) bool
}

var defaultTags = []string{TagMethod, TagPath, TagStatus, TagLatency}

func (cfg Config) withDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = log.StandardLogger()
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = defaultTags
	}
	if cfg.Skip == nil {
		cfg.Skip = func(string) bool { return false }
	}
	return cfg
}

// levelFor maps the response status to the entry level.
func levelFor(status int) log.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return log.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// New returns the access log handler. Preflight requests are not logged.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()
	pid := os.Getpid()
	tags := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || cfg.Skip(c.Path()) {
			return c.Next()
		}
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not written the response yet
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		fields := make(log.Fields, len(tags))
		for name, tag := range tags {
			value := tag(c, d)
			if str, ok := value.(string); ok && str == "" {
				continue
			}
			fields[name] = value
		}
		if _, ok := tags[TagStatus]; ok {
			fields[TagStatus] = status
		}
		cfg.Logger.WithFields(fields).Log(levelFor(status), "api request "+c.Method()+" "+c.Path())
		return err
	}
}
