package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
	redisclient "github.com/aurumjoyeria/aurum-backend/pkg/redis"
)

const sessionIDBytes = 32

// ErrNoSession signals a missing, expired, or malformed session.
var ErrNoSession = errors.New("no active session")

// IdentitySummary is the channel-agnostic snapshot of who is calling. Both
// the cookie session and the bearer token resolve to this shape.
type IdentitySummary struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          enums.Role `json:"role"`
	EmailVerified bool       `json:"email_verified"`
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager stores identity snapshots in Redis keyed by an opaque session ID.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// Create stores the identity under a fresh opaque session ID and returns it.
func (m *Manager) Create(ctx context.Context, identity IdentitySummary) (string, error) {
	if identity.ID == uuid.Nil {
		return "", fmt.Errorf("identity id is required")
	}
	sessionID, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := m.write(ctx, sessionID, identity); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Get resolves the session ID into its stored identity.
func (m *Manager) Get(ctx context.Context, sessionID string) (IdentitySummary, error) {
	if m == nil {
		return IdentitySummary{}, ErrNoSession
	}
	if strings.TrimSpace(sessionID) == "" {
		return IdentitySummary{}, ErrNoSession
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return IdentitySummary{}, ErrNoSession
		}
		return IdentitySummary{}, err
	}

	var identity IdentitySummary
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return IdentitySummary{}, ErrNoSession
	}
	if identity.ID == uuid.Nil {
		return IdentitySummary{}, ErrNoSession
	}
	return identity, nil
}

// Refresh overwrites the stored identity and resets the TTL. The session ID
// stays stable so the caller's cookie remains valid.
func (m *Manager) Refresh(ctx context.Context, sessionID string, identity IdentitySummary) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrNoSession
	}
	if identity.ID == uuid.Nil {
		return fmt.Errorf("identity id is required")
	}
	return m.write(ctx, sessionID, identity)
}

// Destroy removes the session. Destroying a missing session is not an error.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

func (m *Manager) write(ctx context.Context, sessionID string, identity IdentitySummary) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal session identity: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(payload), m.ttl)
}

func newSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
