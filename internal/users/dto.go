package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          enums.Role `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	PendingEmail  *string    `json:"pending_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email                 string
	Name                  string
	PasswordHash          string
	Role                  enums.Role
	VerificationCode      *string
	VerificationExpiresAt *time.Time
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.FullName,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		PendingEmail:  u.PendingEmail,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// FromModels maps a list of rows to their transport shape.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.RoleUser
	}

	return &models.User{
		Email:                 c.Email,
		FullName:              c.Name,
		PasswordHash:          c.PasswordHash,
		Role:                  role,
		VerificationCode:      c.VerificationCode,
		VerificationExpiresAt: c.VerificationExpiresAt,
	}
}
