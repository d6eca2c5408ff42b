package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/security"
)

// RequestEmailChange stages a new address and mails a confirmation code to
// it. The send is fatal here: without the mail the staged address can never
// be confirmed.
func (s *Service) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	normalized := normalizeEmail(newEmail)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new email is required")
	}

	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return err
	}
	if normalized == user.Email {
		return pkgerrors.New(pkgerrors.CodeValidation, "new email matches the current one")
	}

	if _, err := s.repo().FindByEmail(ctx, normalized); err == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "email already in use")
	} else if !users.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email availability")
	}

	code, err := security.GenerateCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate email change code")
	}
	expiry := s.now().Add(emailChangeCodeTTL).UTC()

	if _, err := s.repo().Update(ctx, user.ID, map[string]any{
		"pending_email":           normalized,
		"email_change_code":       code,
		"email_change_expires_at": expiry,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stage email change")
	}

	if s.mail == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail delivery is not configured")
	}
	if err := s.mail.SendEmailChangeEmail(ctx, normalized, user.FullName, code); err != nil {
		return err
	}
	return nil
}

// VerifyEmailChange consumes the staged code: the pending address becomes the
// account email, already confirmed by the very act of receiving the code.
func (s *Service) VerifyEmailChange(ctx context.Context, userID uuid.UUID, code string) (*users.UserDTO, error) {
	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.PendingEmail == nil || user.EmailChangeCode == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no email change pending")
	}
	if code == "" || *user.EmailChangeCode != code {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email change code")
	}
	if user.EmailChangeExpiresAt == nil || s.now().After(*user.EmailChangeExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email change code expired")
	}

	updated, err := s.repo().Update(ctx, user.ID, map[string]any{
		"email":                   *user.PendingEmail,
		"email_verified":          true,
		"pending_email":           nil,
		"email_change_code":       nil,
		"email_change_expires_at": nil,
	})
	if err != nil {
		// The address can get taken between staging and confirmation.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply email change")
	}
	return users.FromModel(updated), nil
}
