package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	t.Run("path check", func(t *testing.T) {
		require.Equal(t, "cv.pdf", SanitizeFileName("../../etc/cv.pdf"))
		require.Equal(t, "cv.pdf", SanitizeFileName(`C:\Users\me\cv.pdf`))
	})
	t.Run("unsafe chars check", func(t *testing.T) {
		require.Equal(t, "my_resume_2024.pdf", SanitizeFileName("my resume (2024).pdf"))
		require.Equal(t, "file", SanitizeFileName("..."))
		require.Equal(t, "invoice_final.pdf", SanitizeFileName("(invoice final).pdf"))
		require.Equal(t, "photo.jpg", SanitizeFileName("photo .jpg"))
		require.Equal(t, "notes", SanitizeFileName("notes!!"))
		require.Equal(t, "env", SanitizeFileName(".env"))
	})
	t.Run("length check", func(t *testing.T) {
		long := make([]byte, 150)
		for i := range long {
			long[i] = 'a'
		}
		require.Len(t, SanitizeFileName(string(long)+".pdf"), 100)
	})
}

func TestHelpers(t *testing.T) {
	t.Run("cents check", func(t *testing.T) {
		require.Equal(t, int64(1999), ToCents(19.99))
		require.Equal(t, int64(250000), ToCents(2500))
	})
	t.Run("day check", func(t *testing.T) {
		day := TruncateToDay(time.Date(2024, 3, 5, 17, 45, 0, 0, time.UTC))
		require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)
	})
	t.Run("context check", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		require.False(t, IsContextDone(ctx))
		cancel()
		require.True(t, IsContextDone(ctx))
	})
}
