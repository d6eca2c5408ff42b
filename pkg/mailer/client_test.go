package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(
		config.MailConfig{
			ResendKey:   "re_test_key",
			FromAddress: "Aurum Joyería <no-reply@aurumjoyeria.com>",
			APIBaseURL:  server.URL,
		},
		config.AppConfig{
			PublicBaseURL:   "https://api.aurumjoyeria.com",
			FrontendBaseURL: "https://aurumjoyeria.com",
		},
	)
	require.NoError(t, err)
	return client
}

func TestSendVerificationEmail(t *testing.T) {
	var captured sendRequest
	var authHeader string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendVerificationEmail(context.Background(), "ana@example.com", "Ana", "code-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", authHeader)
	assert.Equal(t, []string{"ana@example.com"}, captured.To)
	assert.Equal(t, "Verifica tu cuenta — Aurum Joyería", captured.Subject)
	assert.Contains(t, captured.HTML, "https://api.aurumjoyeria.com/auth/verify-email?code=code-123")
	assert.Contains(t, captured.HTML, "code-123")
	assert.Contains(t, captured.HTML, "Ana")
}

func TestSendPasswordResetEmail(t *testing.T) {
	var captured sendRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendPasswordResetEmail(context.Background(), "ana@example.com", "Ana", "reset-code")
	require.NoError(t, err)

	assert.Equal(t, "Recupera tu contraseña — Aurum Joyería", captured.Subject)
	assert.Contains(t, captured.HTML, "reset-code")
	assert.Contains(t, captured.HTML, "https://aurumjoyeria.com/login?reset=1")
}

func TestSendEscapesHTMLInName(t *testing.T) {
	var captured sendRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendEmailChangeEmail(context.Background(), "ana@example.com", "<script>alert(1)</script>", "code")
	require.NoError(t, err)

	assert.NotContains(t, captured.HTML, "<script>alert(1)</script>")
	assert.Contains(t, captured.HTML, "&lt;script&gt;")
}

func TestSendSurfacesUpstreamFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	})

	err := client.SendVerificationEmail(context.Background(), "ana@example.com", "Ana", "code")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.True(t, strings.Contains(err.Error(), "email send failed"))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.MailConfig{}, config.AppConfig{})
	assert.Error(t, err)
}

func TestSendRequiresRecipient(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := client.SendVerificationEmail(context.Background(), "  ", "Ana", "code")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
