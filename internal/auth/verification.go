package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/security"
)

// VerifyEmailByLink resolves a verification code arriving via the email link.
// The caller is unauthenticated, so the code alone identifies the account.
// Expired and unknown codes leave every row untouched.
func (s *Service) VerifyEmailByLink(ctx context.Context, code string) (VerifyLinkStatus, error) {
	if code == "" {
		return VerifyLinkError, nil
	}

	user, err := s.repo().FindByVerificationCode(ctx, code)
	if err != nil {
		if users.IsNotFound(err) {
			return VerifyLinkError, nil
		}
		return VerifyLinkError, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup verification code")
	}

	if user.VerificationExpiresAt == nil || s.now().After(*user.VerificationExpiresAt) {
		return VerifyLinkExpired, nil
	}

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{
		"email_verified":          true,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}); err != nil {
		return VerifyLinkError, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume verification code")
	}
	return VerifyLinkOK, nil
}

// VerifyEmailCode consumes a manually pasted code for the logged-in user.
func (s *Service) VerifyEmailCode(ctx context.Context, userID uuid.UUID, code string) (*users.UserDTO, error) {
	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email already verified")
	}
	if user.VerificationCode == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no verification pending")
	}
	if code == "" || *user.VerificationCode != code {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid verification code")
	}
	if user.VerificationExpiresAt == nil || s.now().After(*user.VerificationExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "verification code expired")
	}

	updated, err := s.repo().Update(ctx, user.ID, map[string]any{
		"email_verified":          true,
		"verification_code":       nil,
		"verification_expires_at": nil,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume verification code")
	}
	return users.FromModel(updated), nil
}

// ResendVerification issues a fresh code, replacing any previous one, and
// mails it. Here the send is the whole point, so a delivery failure is fatal.
func (s *Service) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return pkgerrors.New(pkgerrors.CodeValidation, "email already verified")
	}

	code, err := security.GenerateCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expiry := s.now().Add(verificationCodeTTL).UTC()

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{
		"verification_code":       code,
		"verification_expires_at": expiry,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification code")
	}

	if s.mail == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail delivery is not configured")
	}
	if err := s.mail.SendVerificationEmail(ctx, user.Email, user.FullName, code); err != nil {
		return err
	}
	return nil
}

// mustLoad fetches the user or surfaces a NOT_FOUND error.
func (s *Service) mustLoad(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo().FindByID(ctx, userID)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
