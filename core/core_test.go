package core_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/core"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	custom := core.ErrProfileNotFound.WithMessage("Health center profile not found")
	assert.Equal(t, "Health center profile not found", custom.Error())
	assert.Equal(t, http.StatusNotFound, custom.Code)
	assert.ErrorIs(t, custom, core.ErrProfileNotFound)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", custom), core.ErrProfileNotFound)
	assert.NotErrorIs(t, custom, core.ErrUserNotFound)

	var he core.HTTPError
	assert.True(t, errors.As(fmt.Errorf("x: %w", core.ErrEmailExists), &he))
	assert.Equal(t, "EMAIL_EXISTS", he.Key)
}

func TestEnumsValid(t *testing.T) {
	t.Parallel()

	for _, bt := range core.BloodTypes {
		assert.True(t, bt.Valid(), bt)
	}
	assert.False(t, core.BloodType("C+").Valid())
	assert.False(t, core.BloodType("a+").Valid())

	assert.True(t, core.UrgencyEmergency.Valid())
	assert.False(t, core.Urgency("emergency").Valid())

	assert.True(t, core.TimeframeWithinWeek.Valid())
	assert.False(t, core.Timeframe("within-1y").Valid())

	assert.True(t, core.ContactBoth.Valid())
	assert.False(t, core.ContactPreference("email").Valid())

	assert.True(t, core.RequestFulfilled.Valid())
	assert.False(t, core.RequestStatus("ACTIVE").Valid())

	assert.True(t, core.RoleHealthCenter.Valid())
	assert.False(t, core.Role("admin").Valid())
}

func TestParseBloodType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want core.BloodType
		ok   bool
	}{
		{"A+", core.BloodTypeAPos, true},
		{"ab-", core.BloodTypeABNeg, true},
		{"O ", core.BloodTypeOPos, true},
		{" B ", core.BloodTypeBPos, true},
		{"C+", "C+", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := core.ParseBloodType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := core.ParseDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = core.ParseDate("2025-03-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), d)

	_, err = core.ParseDate("01/03/2025")
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestPagination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, core.Window{Total: 45, Limit: 20, Offset: 20, HasMore: true}, core.NewWindow(45, 20, 20))
	assert.False(t, core.NewWindow(40, 20, 20).HasMore)

	p := core.NewPage(21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.Equal(t, core.Page{CurrentPage: 1}, core.NewPage(0, 1, 10))

	assert.Equal(t, 20, core.ClampLimit(0, 20))
	assert.Equal(t, core.MaxPageSize, core.ClampLimit(1000, 20))
	assert.Equal(t, 5, core.ClampLimit(5, 20))
}
