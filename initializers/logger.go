package initializers

import (
	"strings"

	"blytzwork-backend/fiberlog"

	log "github.com/sirupsen/logrus"
)

var logFields = log.FieldMap{
	log.FieldKeyTime: "@timestamp",
	log.FieldKeyMsg:  "message",
}

func globalLevel(name string, production bool) log.Level {
	if level, err := log.ParseLevel(name); err == nil {
		return level
	}
	if production {
		return log.InfoLevel
	}
	return log.DebugLevel
}

// InitLogger sets up the global JSON logger and a separate access logger.
// An empty or unknown level falls back to info in production and debug elsewhere.
func InitLogger(level string, production bool) *fiberlog.Config {
	log.SetFormatter(&log.JSONFormatter{FieldMap: logFields})
	log.SetLevel(globalLevel(level, production))

	access := log.New()
	access.SetFormatter(&log.JSONFormatter{FieldMap: logFields})
	access.SetLevel(log.InfoLevel)
	return &fiberlog.Config{
		Logger: access,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagUserID,
			fiberlog.RequestID,
		},
		Skip: func(path string) bool {
			return strings.HasSuffix(path, "/health")
		},
	}
}
