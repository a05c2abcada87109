package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepass/notifier/pkg/email"
)

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "worker@site.example.com",
			Subject:  "Access granted",
			BodyHTML: "<h1>Welcome on site</h1>",
			Tag:      "worker-42",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, entry := range entries {
			switch filepath.Ext(entry.Name()) {
			case ".html":
				htmlFile = entry.Name()
			case ".json":
				jsonFile = entry.Name()
			}
		}
		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)
		assert.Contains(t, htmlFile, "worker-42")

		body, err := os.ReadFile(filepath.Join(dir, htmlFile))
		require.NoError(t, err)
		assert.Equal(t, "<h1>Welcome on site</h1>", string(body))

		meta, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(meta, &decoded))
		assert.Equal(t, "worker@site.example.com", decoded["send_to"])
		assert.Equal(t, "Access granted", decoded["subject"])
		assert.Equal(t, "worker-42", decoded["tag"])
	})

	t.Run("writes attachment alongside", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		payload := []byte{0x89, 0x50, 0x4e, 0x47}
		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:         "worker@site.example.com",
			Subject:        "Your pass",
			BodyHTML:       "<p>pass</p>",
			Attachment:     payload,
			AttachmentName: "access-pass.png",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		var attFile string
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "access-pass.png") {
				attFile = entry.Name()
			}
		}
		require.NotEmpty(t, attFile)

		got, err := os.ReadFile(filepath.Join(dir, attFile))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("creates the directory on demand", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "emails")
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "worker@site.example.com",
			Subject:  "Hello",
			BodyHTML: "<p>hi</p>",
		})
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("rejects invalid params before touching disk", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "untouched")
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		assert.NoDirExists(t, dir)
	})
}
