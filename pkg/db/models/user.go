package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email         string     `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	FullName      string     `gorm:"column:full_name;not null"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	Role          enums.Role `gorm:"column:role;not null;default:user"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`

	VerificationCode      *string    `gorm:"column:verification_code;index:idx_users_verification_code"`
	VerificationExpiresAt *time.Time `gorm:"column:verification_expires_at"`

	PasswordResetCode      *string    `gorm:"column:password_reset_code;index:idx_users_password_reset_code"`
	PasswordResetExpiresAt *time.Time `gorm:"column:password_reset_expires_at"`

	PendingEmail         *string    `gorm:"column:pending_email"`
	EmailChangeCode      *string    `gorm:"column:email_change_code;index:idx_users_email_change_code"`
	EmailChangeExpiresAt *time.Time `gorm:"column:email_change_expires_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the ID client-side so the model works the same on
// Postgres and SQLite.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
