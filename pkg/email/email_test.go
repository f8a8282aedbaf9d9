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

	"github.com/bloodlink/bloodlink/pkg/email"
)

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  email.SendEmailParams
		wantErr bool
	}{
		{"valid", email.SendEmailParams{SendTo: "a@b.co", Subject: "Hi", BodyHTML: "<p>x</p>"}, false},
		{"bad recipient", email.SendEmailParams{SendTo: "nope", Subject: "Hi", BodyHTML: "x"}, true},
		{"missing subject", email.SendEmailParams{SendTo: "a@b.co", BodyHTML: "x"}, true},
		{"missing body", email.SendEmailParams{SendTo: "a@b.co", Subject: "Hi"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	s, err := email.NewSender(email.Config{DevDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, s)

	_, err = email.NewSender(email.Config{PostmarkServerToken: "tok", SenderEmail: "bad", SupportEmail: "s@x.io"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	s, err = email.NewSender(email.Config{PostmarkServerToken: "tok", SenderEmail: "n@x.io", SupportEmail: "s@x.io"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mail")
	s := email.NewDevSender(dir)

	err := s.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "donor@example.com",
		Subject:  "Reset your password",
		BodyHTML: "<p>code</p>",
		BodyText: "code",
		Tag:      "password reset",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		assert.Contains(t, e.Name(), "password_reset")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		if strings.HasSuffix(e.Name(), ".json") {
			var meta map[string]string
			require.NoError(t, json.Unmarshal(data, &meta))
			assert.Equal(t, "donor@example.com", meta["send_to"])
			assert.Equal(t, "Reset your password", meta["subject"])
			assert.Equal(t, "code", meta["body_text"])
		} else {
			assert.Equal(t, "<p>code</p>", string(data))
		}
	}

	assert.ErrorIs(t, s.SendEmail(context.Background(), email.SendEmailParams{}), email.ErrInvalidParams)
}
