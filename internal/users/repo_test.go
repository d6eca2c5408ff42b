package users

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "users.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func createUser(t *testing.T, repo *Repository, email string, role enums.Role) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$fake",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))

	created := createUser(t, repo, "ana@example.com", enums.RoleUser)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.EmailVerified)

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, IsNotFound(err))
}

func TestCreateEnforcesUniqueEmail(t *testing.T) {
	repo := NewRepository(testDB(t))

	createUser(t, repo, "dup@example.com", enums.RoleUser)
	_, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "dup@example.com",
		Name:         "Other",
		PasswordHash: "hash",
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestFindByCodes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))
	user := createUser(t, repo, "codes@example.com", enums.RoleUser)

	expiry := time.Now().Add(time.Hour).UTC()
	_, err := repo.Update(ctx, user.ID, map[string]any{
		"verification_code":         "verify-code",
		"verification_expires_at":   expiry,
		"password_reset_code":       "reset-code",
		"password_reset_expires_at": expiry,
	})
	require.NoError(t, err)

	found, err := repo.FindByVerificationCode(ctx, "verify-code")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByPasswordResetCode(ctx, "reset-code")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByVerificationCode(ctx, "wrong")
	assert.True(t, IsNotFound(err))
}

func TestUpdateReturnsFreshRow(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))
	user := createUser(t, repo, "patch@example.com", enums.RoleUser)

	updated, err := repo.Update(ctx, user.ID, map[string]any{
		"full_name":      "Renamed",
		"email_verified": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.True(t, updated.EmailVerified)

	_, err = repo.Update(ctx, uuid.New(), map[string]any{"full_name": "x"})
	assert.True(t, IsNotFound(err))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))
	user := createUser(t, repo, "gone@example.com", enums.RoleUser)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err := repo.FindByID(ctx, user.ID)
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(repo.Delete(ctx, user.ID)))
}

func TestListAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))

	createUser(t, repo, "a@example.com", enums.RoleAdmin)
	createUser(t, repo, "b@example.com", enums.RoleUser)
	createUser(t, repo, "c@example.com", enums.RoleUser)

	list, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	rest, err := repo.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	admins, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)
}
