package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumjoyeria/aurum-backend/api/middleware"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
	"github.com/aurumjoyeria/aurum-backend/pkg/types"
)

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) types.APIError {
	t.Helper()

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error
}

func sessionCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func registerUser(t *testing.T, env *testEnv, email string) *auth.LoginResult {
	t.Helper()

	result, err := env.auth.Register(context.Background(), auth.RegisterRequest{
		Email:    email,
		Name:     "Lucía Prueba",
		Password: "secreta123",
	})
	require.NoError(t, err)
	return result
}

func identityRequest(req *http.Request, identity session.IdentitySummary, sessionID string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), identity)
	if sessionID != "" {
		ctx = middleware.WithSessionID(ctx, sessionID)
	}
	return req.WithContext(ctx)
}

func TestAuthRegisterCreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	handler := AuthRegister(env.auth, testSessionConfig(), testLogger())

	req := jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "nueva@aurum.test",
		"name":     "Nueva Clienta",
		"password": "secreta123",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var token auth.TokenResponse
	decodeData(t, resp, &token)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	require.NotNil(t, token.User)
	assert.Equal(t, "nueva@aurum.test", token.User.Email)
	assert.False(t, token.User.EmailVerified)

	cookie := sessionCookie(resp, "aurum_session")
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	env := newTestEnv(t)
	handler := AuthRegister(env.auth, testSessionConfig(), testLogger())

	req := jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "not-an-email",
		"name":     "X",
		"password": "short",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Code)
}

func TestAuthRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "repetida@aurum.test")

	handler := AuthRegister(env.auth, testSessionConfig(), testLogger())
	req := jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "repetida@aurum.test",
		"name":     "Otra Persona",
		"password": "secreta123",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, resp).Code)
}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "clienta@aurum.test")

	handler := AuthLogin(env.auth, testSessionConfig(), testLogger())
	req := jsonRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "clienta@aurum.test",
		"password": "secreta123",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var token auth.TokenResponse
	decodeData(t, resp, &token)
	assert.NotEmpty(t, token.AccessToken)

	cookie := sessionCookie(resp, "aurum_session")
	require.NotNil(t, cookie)
	_, ok := env.sessions.data[cookie.Value]
	assert.True(t, ok)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "clienta@aurum.test")

	handler := AuthLogin(env.auth, testSessionConfig(), testLogger())
	req := jsonRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "clienta@aurum.test",
		"password": "equivocada",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Nil(t, sessionCookie(resp, "aurum_session"))
}

func TestAuthLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)
	result := registerUser(t, env, "clienta@aurum.test")
	require.Contains(t, env.sessions.data, result.SessionID)

	handler := AuthLogout(env.auth, testSessionConfig(), testLogger())
	req := jsonRequest(t, http.MethodPost, "/auth/logout", nil)
	req = identityRequest(req, session.IdentitySummary{
		ID:    result.User.ID,
		Email: result.User.Email,
		Role:  enums.RoleUser,
	}, result.SessionID)
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, env.sessions.data, result.SessionID)

	cookie := sessionCookie(resp, "aurum_session")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestProfileGetReturnsCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	result := registerUser(t, env, "clienta@aurum.test")

	handler := ProfileGet(env.auth, testLogger())
	req := jsonRequest(t, http.MethodGet, "/auth/me", nil)
	req = identityRequest(req, session.IdentitySummary{
		ID:    result.User.ID,
		Email: result.User.Email,
		Role:  enums.RoleUser,
	}, "")
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var dto struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decodeData(t, resp, &dto)
	assert.Equal(t, "clienta@aurum.test", dto.Email)
	assert.Equal(t, "Lucía Prueba", dto.Name)
}

func TestProfileUpdateSyncsSession(t *testing.T) {
	env := newTestEnv(t)
	result := registerUser(t, env, "clienta@aurum.test")

	handler := ProfileUpdate(env.auth, testLogger())
	req := jsonRequest(t, http.MethodPut, "/auth/me", map[string]string{"name": "Lucía Renombrada"})
	req = identityRequest(req, session.IdentitySummary{
		ID:    result.User.ID,
		Email: result.User.Email,
		Role:  enums.RoleUser,
	}, result.SessionID)
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var dto struct {
		Name string `json:"name"`
	}
	decodeData(t, resp, &dto)
	assert.Equal(t, "Lucía Renombrada", dto.Name)
	assert.Equal(t, "Lucía Renombrada", env.sessions.data[result.SessionID].Name)
}

func TestRequestPasswordResetAlwaysSucceeds(t *testing.T) {
	env := newTestEnv(t)

	handler := RequestPasswordReset(env.auth, testLogger())
	req := jsonRequest(t, http.MethodPost, "/auth/request-password-reset", map[string]string{
		"email": "desconocida@aurum.test",
	})
	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &body)
	assert.Equal(t, "reset_requested", body.Status)
}
