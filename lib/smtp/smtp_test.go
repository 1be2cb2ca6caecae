package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailer(t *testing.T) {
	t.Run("not configured check", func(t *testing.T) {
		mailer := NewMailer(Config{})
		require.False(t, mailer.IsConfigured())
		require.NoError(t, mailer.SendEMail("va@example.com", "New match", "You have a new match"))
	})
	t.Run("message headers check", func(t *testing.T) {
		msg := buildMessage("noreply@blytz.work", "va@example.com", "New match", "body")
		require.True(t, strings.HasPrefix(msg, "From: noreply@blytz.work\r\n"))
		require.Contains(t, msg, "Subject: BlytzWork - New match\r\n")
		require.True(t, strings.HasSuffix(msg, "\r\n\r\nbody\r\n"))
	})
}
