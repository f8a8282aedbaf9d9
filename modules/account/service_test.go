package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/account"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

const testPassword = "Secret123"

type fixture struct {
	svc   *account.Service
	repo  *memRepo
	tasks *captureQueue
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newMemRepo(),
		tasks: &captureQueue{},
		now:   time.Now().UTC().Truncate(time.Second),
	}
	svc, err := account.NewService(account.Config{
		JWTSecret:       "test-secret",
		JWTIssuer:       "bloodlink",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   10 * time.Minute,
		BcryptCost:      bcrypt.MinCost,
	}, f.repo, f.tasks, account.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func donorRequest(email string) account.RegisterRequest {
	return account.RegisterRequest{
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            core.RoleDonor,
		Phone:           "+251 911 000 000",
		Location:        "Addis Ababa",
		FullName:        "abebe kebede",
		BloodType:       core.BloodTypeONeg,
	}
}

func (f *fixture) register(t *testing.T, req account.RegisterRequest) account.Session {
	t.Helper()
	sess, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestNewServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := account.NewService(account.Config{}, newMemRepo(), &captureQueue{})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sess := f.register(t, donorRequest(" Donor@Example.com "))

	assert.Equal(t, "donor@example.com", sess.User.Email)
	assert.Equal(t, core.UserPendingVerification, sess.User.Status)
	assert.Equal(t, "+251911000000", sess.User.Phone)
	require.NotNil(t, sess.User.Donor)
	assert.Equal(t, "Abebe Kebede", sess.User.Donor.FullName)
	assert.True(t, sess.User.Donor.IsAvailable)
	require.NotNil(t, sess.User.LastLoginAt)

	assert.NotEmpty(t, sess.Tokens.AccessToken)
	assert.NotEmpty(t, sess.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", sess.Tokens.TokenType)
	assert.Equal(t, int64(900), sess.Tokens.ExpiresIn)

	_, err := f.svc.Register(context.Background(), donorRequest("donor@example.com"))
	assert.ErrorIs(t, err, account.ErrEmailTaken)
}

func TestRegisterHealthCenter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sess := f.register(t, account.RegisterRequest{
		Email:           "center@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            core.RoleHealthCenter,
		Phone:           "0911",
		Location:        "Bahir Dar",
		CenterName:      "Felege Hiwot Hospital",
		ContactPerson:   "Dr. Sara",
	})

	require.NotNil(t, sess.User.HealthCenter)
	assert.Nil(t, sess.User.Donor)
	assert.Equal(t, "Felege Hiwot Hospital", sess.User.HealthCenter.CenterName)
	assert.False(t, sess.User.HealthCenter.Verified)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), account.RegisterRequest{
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
		Role:            core.RoleDonor,
		Location:        "A",
		BloodType:       "Z+",
	})

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"email", "password", "confirmPassword", "phone", "location", "fullName", "bloodType"} {
		assert.True(t, ve.Has(field), field)
	}
	assert.False(t, ve.Has("centerName"))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))

	tests := []struct {
		name    string
		req     account.LoginRequest
		status  core.UserStatus
		wantErr error
	}{
		{name: "ok", req: account.LoginRequest{Email: "DONOR@example.com", Password: testPassword}},
		{name: "ok with role", req: account.LoginRequest{Email: "donor@example.com", Password: testPassword, Role: core.RoleDonor}},
		{name: "wrong password", req: account.LoginRequest{Email: "donor@example.com", Password: "Wrong1234"}, wantErr: account.ErrInvalidCredentials},
		{name: "unknown email", req: account.LoginRequest{Email: "nobody@example.com", Password: testPassword}, wantErr: account.ErrInvalidCredentials},
		{name: "role mismatch", req: account.LoginRequest{Email: "donor@example.com", Password: testPassword, Role: core.RoleHealthCenter}, wantErr: account.ErrRoleMismatch},
		{name: "suspended", req: account.LoginRequest{Email: "donor@example.com", Password: testPassword}, status: core.UserSuspended, wantErr: account.ErrAccountSuspended},
		{name: "inactive", req: account.LoginRequest{Email: "donor@example.com", Password: testPassword}, status: core.UserInactive, wantErr: account.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := core.UserPendingVerification
			if tt.status != "" {
				status = tt.status
			}
			f.repo.setStatus(reg.User.ID, status)

			sess, err := f.svc.Login(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reg.User.ID, sess.User.ID)
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))

	next, err := f.svc.Refresh(context.Background(), account.RefreshRequest{RefreshToken: reg.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.RefreshToken, next.Tokens.RefreshToken)

	_, err = f.svc.Refresh(context.Background(), account.RefreshRequest{RefreshToken: reg.Tokens.RefreshToken})
	assert.ErrorIs(t, err, account.ErrInvalidRefreshToken)

	f.now = f.now.Add(8 * 24 * time.Hour)
	_, err = f.svc.Refresh(context.Background(), account.RefreshRequest{RefreshToken: next.Tokens.RefreshToken})
	assert.ErrorIs(t, err, account.ErrInvalidRefreshToken)
	assert.Zero(t, f.repo.refreshCount())
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))

	require.NoError(t, f.svc.Logout(context.Background(), reg.Tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(context.Background(), reg.Tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(context.Background(), ""))
	assert.Zero(t, f.repo.refreshCount())
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, donorRequest("donor@example.com"))
	ctx := context.Background()

	tok, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordRequest{Email: "donor@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	tasks := f.tasks.all()
	require.Len(t, tasks, 1)
	task, ok := tasks[0].(account.ResetEmailTask)
	require.True(t, ok)
	assert.Equal(t, "donor@example.com", task.Email)
	assert.Equal(t, tok, task.Token)

	reset := account.ResetPasswordRequest{Token: tok, Password: "NewSecret9", ConfirmPassword: "NewSecret9"}
	require.NoError(t, f.svc.ResetPassword(ctx, reset))
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, reset), account.ErrInvalidResetToken)
	assert.Zero(t, f.repo.refreshCount(), "reset revokes refresh tokens")

	_, err = f.svc.Login(ctx, account.LoginRequest{Email: "donor@example.com", Password: "NewSecret9"})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, account.LoginRequest{Email: "donor@example.com", Password: testPassword})
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestPasswordResetRejectsExpiredAndForgedTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, donorRequest("donor@example.com"))
	ctx := context.Background()

	tok, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordRequest{Email: "donor@example.com"})
	require.NoError(t, err)

	forged := account.ResetPasswordRequest{Token: tok + "x", Password: "NewSecret9", ConfirmPassword: "NewSecret9"}
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, forged), account.ErrInvalidResetToken)

	f.now = f.now.Add(11 * time.Minute)
	expired := account.ResetPasswordRequest{Token: tok, Password: "NewSecret9", ConfirmPassword: "NewSecret9"}
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, expired), account.ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tok, err := f.svc.ForgotPassword(context.Background(), account.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Empty(t, f.tasks.all())
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, reg.User.ID, account.ChangePasswordRequest{
		CurrentPassword: "Wrong1234", NewPassword: "Another1x", ConfirmPassword: "Another1x",
	})
	assert.ErrorIs(t, err, account.ErrWrongPassword)

	require.NoError(t, f.svc.ChangePassword(ctx, reg.User.ID, account.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "Another1x", ConfirmPassword: "Another1x",
	}))
	_, err = f.svc.Login(ctx, account.LoginRequest{Email: "donor@example.com", Password: "Another1x"})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))

	u, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)

	_, err = f.svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, account.ErrInvalidAccessToken)
}

func TestUpdateProfileAndStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))
	ctx := context.Background()

	empty, handle := "", "@blood_hero"
	p, err := f.svc.UpdateProfile(ctx, reg.User.ID, account.UpdateProfileRequest{
		Phone:            &empty,
		TelegramUsername: &handle,
	})
	require.NoError(t, err)
	assert.Equal(t, "+251911000000", p.Phone, "empty phone keeps the old value")
	require.NotNil(t, p.TelegramUsername)
	assert.Equal(t, "blood_hero", *p.TelegramUsername)

	stats, err := f.svc.Stats(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, account.DonorStats{IsAvailable: true, BloodType: core.BloodTypeONeg}, stats)
}

func TestDeactivate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.register(t, donorRequest("donor@example.com"))

	require.NoError(t, f.svc.Deactivate(context.Background(), reg.User.ID))
	assert.Zero(t, f.repo.refreshCount())

	_, err := f.svc.Login(context.Background(), account.LoginRequest{Email: "donor@example.com", Password: testPassword})
	assert.ErrorIs(t, err, account.ErrAccountInactive)
}

func TestCleanupExpired(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register(t, donorRequest("donor@example.com"))
	f.now = f.now.Add(30 * 24 * time.Hour)

	require.NoError(t, f.svc.CleanupExpired(context.Background()))
	assert.Zero(t, f.repo.refreshCount())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, core.ErrEmailExists, account.HTTPError(account.ErrEmailTaken))
	assert.Equal(t, core.ErrInvalidPassword, account.HTTPError(account.ErrWrongPassword))

	other := assert.AnError
	assert.Equal(t, other, account.HTTPError(other))
}
