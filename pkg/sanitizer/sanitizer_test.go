package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloodlink/bloodlink/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  Donor@Example.COM ": "donor@example.com",
		"a..b.@mail.org":       "a.b@mail.org",
		"not-an-email":         "not-an-email",
		"a@b@c":                "a@b@c",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizer.NormalizeEmail(in), in)
	}
}

func TestPersonName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Abebe Kebede", sanitizer.PersonName("  abebe \n kebede "))
	assert.Equal(t, "McDonald", sanitizer.PersonName("McDonald"))
}

func TestPhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+251911223344", sanitizer.Phone(" +251 (911) 22-33-44 "))
	assert.Equal(t, "0911", sanitizer.Phone("09+11"))
}

func TestApplyAndText(t *testing.T) {
	t.Parallel()

	got := sanitizer.Apply("  hello\x00 world  ", sanitizer.Text, strings.ToUpper)
	assert.Equal(t, "HELLO WORLD", got)
	assert.Equal(t, "donor_bot", sanitizer.Handle(" @donor_bot"))
}
