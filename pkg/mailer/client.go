package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.resend.com"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("resend api key is required")

// Sender is the outbound mail surface used by services.
type Sender interface {
	SendVerificationEmail(ctx context.Context, to, name, code string) error
	SendPasswordResetEmail(ctx context.Context, to, name, code string) error
	SendEmailChangeEmail(ctx context.Context, to, name, code string) error
}

// Client sends transactional email through the Resend REST API.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	from            string
	publicBaseURL   string
	frontendBaseURL string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Resend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Resend client from mail and app configuration.
func NewClient(cfg config.MailConfig, app config.AppConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.ResendKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		baseURL:         defaultBaseURL,
		apiKey:          apiKey,
		from:            cfg.FromAddress,
		publicBaseURL:   strings.TrimRight(app.PublicBaseURL, "/"),
		frontendBaseURL: strings.TrimRight(app.FrontendBaseURL, "/"),
	}
	if cfg.APIBaseURL != "" {
		client.baseURL = strings.TrimSpace(cfg.APIBaseURL)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// SendVerificationEmail delivers the account activation mail. The code works
// both through the embedded link and pasted manually in the profile page.
func (c *Client) SendVerificationEmail(ctx context.Context, to, name, code string) error {
	verifyLink := fmt.Sprintf("%s/auth/verify-email?code=%s", c.publicBaseURL, code)
	profileURL := c.frontendBaseURL + "/profile"
	html := renderVerificationEmail(name, code, verifyLink, profileURL)
	return c.send(ctx, to, "Verifica tu cuenta — Aurum Joyería", html)
}

// SendPasswordResetEmail delivers the password recovery mail.
func (c *Client) SendPasswordResetEmail(ctx context.Context, to, name, code string) error {
	resetURL := c.frontendBaseURL + "/login?reset=1"
	html := renderPasswordResetEmail(name, code, resetURL)
	return c.send(ctx, to, "Recupera tu contraseña — Aurum Joyería", html)
}

// SendEmailChangeEmail delivers the new-address confirmation mail. It goes to
// the staged address, not the current one.
func (c *Client) SendEmailChangeEmail(ctx context.Context, to, name, code string) error {
	html := renderEmailChangeEmail(name, code)
	return c.send(ctx, to, "Verifica tu nuevo correo — Aurum Joyería", html)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *Client) send(ctx context.Context, to, subject, html string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient address is required")
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal email request")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/emails"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build email request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute email request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"email send failed",
		)
	}
	return nil
}
