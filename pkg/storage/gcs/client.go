package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

const (
	defaultAPIBase    = "https://storage.googleapis.com/storage/v1"
	defaultUploadBase = "https://storage.googleapis.com/upload/storage/v1"
	pingTimeout       = 5 * time.Second
)

// Client talks to the Cloud Storage JSON API directly, without the heavy SDK.
type Client struct {
	httpClient  *http.Client
	bucket      string
	prefix      string
	publicHost  string
	apiBase     string
	uploadBase  string
	tokenSource *tokenSource
}

type Pinger interface {
	Ping(ctx context.Context) error
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

// WithEndpoints overrides the storage API endpoints. Used by tests.
func WithEndpoints(apiBase, uploadBase string) Option {
	return func(c *Client) {
		if apiBase != "" {
			c.apiBase = strings.TrimRight(apiBase, "/")
		}
		if uploadBase != "" {
			c.uploadBase = strings.TrimRight(uploadBase, "/")
		}
	}
}

// NewClient builds a storage client and verifies bucket access.
func NewClient(ctx context.Context, cfg config.GCSConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var ts *tokenSource
	var err error
	if cfg.CredentialsJSON != "" {
		ts, err = newServiceAccountTokenSource(httpClient, cfg.CredentialsJSON)
	} else {
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:  httpClient,
		bucket:      cfg.Bucket,
		prefix:      strings.Trim(cfg.ObjectPrefix, "/"),
		publicHost:  strings.TrimRight(cfg.PublicHost, "/"),
		apiBase:     defaultAPIBase,
		uploadBase:  defaultUploadBase,
		tokenSource: ts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}

	return client, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// ObjectName builds the prefixed object path for a stored file.
func (c *Client) ObjectName(parts ...string) string {
	all := append([]string{c.prefix}, parts...)
	clean := make([]string, 0, len(all))
	for _, p := range all {
		p = strings.Trim(p, "/")
		if p != "" {
			clean = append(clean, p)
		}
	}
	return path.Join(clean...)
}

// PublicURL returns the browser-reachable URL for an object.
func (c *Client) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicHost, c.bucket, objectName)
}

// ObjectNameFromURL reverses PublicURL. Returns false when the URL does not
// point into this client's bucket.
func (c *Client) ObjectNameFromURL(publicURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", c.publicHost, c.bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(publicURL, prefix)
	return name, name != ""
}

// UploadObject writes data under objectName with the given content type.
func (c *Client) UploadObject(ctx context.Context, objectName, contentType string, data []byte) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if objectName == "" {
		return errors.New("object name is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o?uploadType=media&name=%s",
		c.uploadBase,
		url.PathEscape(c.bucket),
		url.QueryEscape(objectName),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs upload failed", resp)
	}
	return nil
}

// DeleteObject removes objectName. A missing object is not an error so
// cleanup paths stay idempotent.
func (c *Client) DeleteObject(ctx context.Context, objectName string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if objectName == "" {
		return errors.New("object name is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o/%s",
		c.apiBase,
		url.PathEscape(c.bucket),
		url.PathEscape(objectName),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return statusError("gcs delete failed", resp)
	}
	return nil
}

// Ping lists a single object to verify credentials and bucket access.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if c.bucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func statusError(msg string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s: %s: %s", msg, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s: %s", msg, resp.Status)
}
