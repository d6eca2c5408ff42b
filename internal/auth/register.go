package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/security"
)

// Register creates the account, stages a verification code, and signs the
// caller in. The verification email is best-effort; a delivery failure never
// fails the registration.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < s.minPasswordLength() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is too short")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	code, err := security.GenerateCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expiry := s.now().Add(verificationCodeTTL).UTC()

	var user *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !users.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		created, err := repo.Create(ctx, users.CreateUserDTO{
			Email:                 email,
			Name:                  req.Name,
			PasswordHash:          passwordHash,
			Role:                  enums.RoleUser,
			VerificationCode:      &code,
			VerificationExpiresAt: &expiry,
		})
		if err != nil {
			// Concurrent registration slips past the pre-check; the unique
			// index is the source of truth.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		if err := s.mail.SendVerificationEmail(ctx, user.Email, user.FullName, code); err != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "verification email delivery failed")
		}
	}

	return s.issueCredentials(ctx, user)
}

func (s *Service) minPasswordLength() int {
	if s.passwordCfg.MinLength > 0 {
		return s.passwordCfg.MinLength
	}
	return 6
}
