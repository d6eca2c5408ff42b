package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/security"
)

// ChangePassword swaps the password for an authenticated user after checking
// the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < s.minPasswordLength() {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is too short")
	}

	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{"password_hash": hash}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	return nil
}

// RequestPasswordReset stages a recovery code and mails it. The response is
// identical whether or not the address exists, so the endpoint cannot be used
// to probe for accounts. Delivery problems are logged, never surfaced.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return
	}

	user, err := s.repo().FindByEmail(ctx, normalized)
	if err != nil {
		if !users.IsNotFound(err) {
			s.logg.Error(ctx, "password reset lookup failed", err)
		}
		return
	}

	code, err := security.GenerateCode()
	if err != nil {
		s.logg.Error(ctx, "password reset code generation failed", err)
		return
	}
	expiry := s.now().Add(passwordResetCodeTTL).UTC()

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{
		"password_reset_code":       code,
		"password_reset_expires_at": expiry,
	}); err != nil {
		s.logg.Error(ctx, "password reset code store failed", err)
		return
	}

	if s.mail == nil {
		return
	}
	if err := s.mail.SendPasswordResetEmail(ctx, user.Email, user.FullName, code); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "password reset email delivery failed")
	}
}

// ResetPassword consumes a recovery code and installs the new password in the
// same update, so the code can never be replayed.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired code")
	}
	if len(req.NewPassword) < s.minPasswordLength() {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is too short")
	}

	user, err := s.repo().FindByPasswordResetCode(ctx, req.Code)
	if err != nil {
		if users.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset code")
	}

	if user.PasswordResetExpiresAt == nil || s.now().After(*user.PasswordResetExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired code")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{
		"password_hash":             hash,
		"password_reset_code":       nil,
		"password_reset_expires_at": nil,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	return nil
}
