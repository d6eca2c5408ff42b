package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
)

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	err := svc.ChangePassword(context.Background(), result.User.ID, ChangePasswordRequest{
		CurrentPassword: "secret-pass",
		NewPassword:     "brand-new-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret-pass"})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	err := svc.ChangePassword(context.Background(), result.User.ID, ChangePasswordRequest{
		CurrentPassword: "guess",
		NewPassword:     "brand-new-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestRequestPasswordResetStagesCodeAndMails(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	svc.RequestPasswordReset(context.Background(), "ana@example.com")

	require.Len(t, mail.reset, 1)
	assert.Equal(t, "ana@example.com", mail.reset[0].To)

	user, err := svc.repo().FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.PasswordResetCode)
	assert.Equal(t, mail.reset[0].Code, *user.PasswordResetCode)
	require.NotNil(t, user.PasswordResetExpiresAt)
	assert.WithinDuration(t, time.Now().Add(passwordResetCodeTTL), *user.PasswordResetExpiresAt, time.Minute)
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, mail, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.Empty(t, mail.reset)
}

func TestResetPasswordConsumesCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	register(t, svc, "ana@example.com")
	svc.RequestPasswordReset(context.Background(), "ana@example.com")
	code := mail.reset[0].Code

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Code:        code,
		NewPassword: "recovered-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "recovered-pass"})
	assert.NoError(t, err)

	// replay is rejected
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Code:        code,
		NewPassword: "another-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestResetPasswordExpiredCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	register(t, svc, "ana@example.com")
	svc.RequestPasswordReset(context.Background(), "ana@example.com")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Code:        mail.reset[0].Code,
		NewPassword: "recovered-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))

	// the old password still works
	svc.now = time.Now
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret-pass"})
	assert.NoError(t, err)
}

func TestResetPasswordUnknownCode(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Code:        "never-issued",
		NewPassword: "recovered-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}
