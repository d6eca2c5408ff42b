package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/pagination"
)

func TestProfileAndUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	dto, _, err := svc.Profile(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", dto.Name)

	updated, _, err := svc.UpdateProfile(context.Background(), result.User.ID, UpdateProfileRequest{Name: "Ana María"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	dto, _, err = svc.Profile(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", dto.Name)
}

func TestDeleteAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	require.NoError(t, svc.DeleteAccount(context.Background(), result.User.ID))

	_, _, err := svc.Profile(context.Background(), result.User.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
}

func TestDeleteAccountLastAdminBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "admin@example.com")
	_, err := svc.SetRole(context.Background(), result.User.ID, enums.RoleAdmin)
	require.NoError(t, err)

	err = svc.DeleteAccount(context.Background(), result.User.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))

	// a second admin unblocks the deletion
	other := register(t, svc, "other@example.com")
	_, err = svc.SetRole(context.Background(), other.User.ID, enums.RoleAdmin)
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteAccount(context.Background(), result.User.ID))
}

func TestListUsers(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "a@example.com")
	register(t, svc, "b@example.com")
	register(t, svc, "c@example.com")

	page, err := svc.ListUsers(context.Background(), pagination.Params{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)

	rest, err := svc.ListUsers(context.Background(), pagination.Params{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Users, 1)
}

func TestSetRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	dto, err := svc.SetRole(context.Background(), result.User.ID, enums.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, dto.Role)

	// same role is a no-op
	dto, err = svc.SetRole(context.Background(), result.User.ID, enums.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, dto.Role)
}

func TestSetRoleLastAdminDemotionBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "admin@example.com")
	_, err := svc.SetRole(context.Background(), result.User.ID, enums.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.SetRole(context.Background(), result.User.ID, enums.RoleUser)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestSetRoleValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	result := register(t, svc, "ana@example.com")

	_, err := svc.SetRole(context.Background(), result.User.ID, enums.Role("emperor"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}
