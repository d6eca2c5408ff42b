package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
)

func TestVerifyEmailByLink(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")
	code := mail.verification[0].Code

	status, err := svc.VerifyEmailByLink(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkOK, status)

	user, err := svc.repo().FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.VerificationCode)
	assert.Nil(t, user.VerificationExpiresAt)

	// single use: the consumed code no longer resolves
	status, err = svc.VerifyEmailByLink(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkError, status)
}

func TestVerifyEmailByLinkUnknownCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	status, err := svc.VerifyEmailByLink(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkError, status)
}

func TestVerifyEmailByLinkExpiredCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")
	code := mail.verification[0].Code

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	status, err := svc.VerifyEmailByLink(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkExpired, status)

	// expiry leaves the row untouched
	user, err := svc.repo().FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.VerificationCode)
}

func TestVerifyEmailCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	dto, err := svc.VerifyEmailCode(context.Background(), result.User.ID, mail.verification[0].Code)
	require.NoError(t, err)
	assert.True(t, dto.EmailVerified)

	// a second attempt finds nothing pending
	_, err = svc.VerifyEmailCode(context.Background(), result.User.ID, mail.verification[0].Code)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestVerifyEmailCodeWrongCodeLeavesState(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	_, err := svc.VerifyEmailCode(context.Background(), result.User.ID, "wrong")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))

	user, err := svc.repo().FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.VerificationCode)
}

func TestResendVerificationOverwritesCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")
	firstCode := mail.verification[0].Code

	require.NoError(t, svc.ResendVerification(context.Background(), result.User.ID))
	require.Len(t, mail.verification, 2)
	secondCode := mail.verification[1].Code
	assert.NotEqual(t, firstCode, secondCode)

	// the old code is dead, the new one works
	status, err := svc.VerifyEmailByLink(context.Background(), firstCode)
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkError, status)

	status, err = svc.VerifyEmailByLink(context.Background(), secondCode)
	require.NoError(t, err)
	assert.Equal(t, VerifyLinkOK, status)
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")
	_, err := svc.VerifyEmailCode(context.Background(), result.User.ID, mail.verification[0].Code)
	require.NoError(t, err)

	err = svc.ResendVerification(context.Background(), result.User.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestResendVerificationMailFailureIsFatal(t *testing.T) {
	svc, mail, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	mail.err = pkgerrors.New(pkgerrors.CodeDependency, "smtp down")
	err := svc.ResendVerification(context.Background(), result.User.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, errCode(t, err))
}
