package helpers

import (
	"context"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName keeps only the base name made of safe characters, capped at 100 chars.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	ext := filepath.Ext(name)
	stem := strings.Trim(strings.TrimSuffix(name, ext), "._")
	ext = strings.Trim(ext, "._")
	switch {
	case stem == "" && ext == "":
		return "file"
	case stem == "":
		name = ext
	case ext == "":
		name = stem
	default:
		name = stem + "." + ext
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// ToCents converts a decimal amount to minor units.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func Ptr[T any](v T) *T {
	return &v
}
