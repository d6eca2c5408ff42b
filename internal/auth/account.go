package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/pagination"
)

// Profile returns the caller's fresh row and hands it back for session
// refresh.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, *models.User, error) {
	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return users.FromModel(user), user, nil
}

// UpdateProfile changes the display name.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, *models.User, error) {
	if _, err := s.mustLoad(ctx, userID); err != nil {
		return nil, nil, err
	}

	updated, err := s.repo().Update(ctx, userID, map[string]any{"full_name": req.Name})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return users.FromModel(updated), updated, nil
}

// DeleteAccount removes the caller's row. The last remaining admin cannot
// delete itself, otherwise the system would have no administrator left.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if users.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		if user.Role == enums.RoleAdmin {
			admins, err := repo.CountAdmins(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admins")
			}
			if admins <= 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete the last admin account")
			}
		}

		if err := repo.Delete(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
}

// ListUsers returns a safe projection of all accounts for admins.
func (s *Service) ListUsers(ctx context.Context, params pagination.Params) (*UserListResponse, error) {
	params = params.Normalize()

	list, err := s.repo().List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	total, err := s.repo().Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}

	return &UserListResponse{
		Users:  users.FromModels(list),
		Total:  total,
		Offset: params.Offset,
		Limit:  params.Limit,
	}, nil
}

// SetRole assigns a role to the target user. Demoting the last admin is
// blocked for the same reason deleting it is.
func (s *Service) SetRole(ctx context.Context, targetID uuid.UUID, role enums.Role) (*users.UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	var updated *models.User
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		user, err := repo.FindByID(ctx, targetID)
		if err != nil {
			if users.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if user.Role == role {
			updated = user
			return nil
		}

		if user.Role == enums.RoleAdmin && role != enums.RoleAdmin {
			admins, err := repo.CountAdmins(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admins")
			}
			if admins <= 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cannot demote the last admin account")
			}
		}

		updated, err = repo.Update(ctx, targetID, map[string]any{"role": role})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(updated), nil
}
