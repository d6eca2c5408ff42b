package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/internal/users"
	pkgAuth "github.com/aurumjoyeria/aurum-backend/pkg/auth"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/mailer"
	"github.com/aurumjoyeria/aurum-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid email or password"

// Code lifetimes per flow.
const (
	verificationCodeTTL  = 24 * time.Hour
	passwordResetCodeTTL = time.Hour
	emailChangeCodeTTL   = time.Hour
)

type sessionManager interface {
	Create(ctx context.Context, identity session.IdentitySummary) (string, error)
	Refresh(ctx context.Context, sessionID string, identity session.IdentitySummary) error
	Destroy(ctx context.Context, sessionID string) error
}

// Service implements every account lifecycle operation.
type Service struct {
	db          *db.Client
	mail        mailer.Sender
	sessions    sessionManager
	logg        *logger.Logger
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build the auth service.
type ServiceParams struct {
	DB             *db.Client
	Mailer         mailer.Sender
	SessionManager sessionManager
	Logger         *logger.Logger
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		db:          params.DB,
		mail:        params.Mailer,
		sessions:    params.SessionManager,
		logg:        params.Logger,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
		now:         time.Now,
	}, nil
}

func (s *Service) repo() *users.Repository {
	return users.NewRepository(s.db.DB())
}

// Login authenticates the credential pair and opens a fresh session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueCredentials(ctx, user)
}

// Logout destroys the browser session. Token-only callers are a no-op.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "destroy session")
	}
	return nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.repo().FindByEmail(ctx, normalized)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// issueCredentials mints the bearer token and opens a cookie session for the
// given user.
func (s *Service) issueCredentials(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	sessionID, err := s.sessions.Create(ctx, identityOf(user))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	return &LoginResult{
		TokenResponse: TokenResponse{
			AccessToken: accessToken,
			TokenType:   "bearer",
			User:        users.FromModel(user),
		},
		SessionID: sessionID,
	}, nil
}

// refreshSession pushes the current user snapshot into an existing session.
// A blank session ID (bearer-only caller) is skipped silently.
func (s *Service) refreshSession(ctx context.Context, sessionID string, user *models.User) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Refresh(ctx, sessionID, identityOf(user)); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "session refresh failed")
	}
}

// SyncSession refreshes a cookie session with the user's current snapshot so
// profile edits show up without a re-login. Blank session IDs are a no-op.
func (s *Service) SyncSession(ctx context.Context, sessionID string, user *models.User) {
	s.refreshSession(ctx, sessionID, user)
}

// Identity resolves a user ID into the caller snapshot used by the request
// middleware. Bearer tokens carry only the ID, so this hits the database.
func (s *Service) Identity(ctx context.Context, userID uuid.UUID) (session.IdentitySummary, error) {
	user, err := s.mustLoad(ctx, userID)
	if err != nil {
		return session.IdentitySummary{}, err
	}
	return identityOf(user), nil
}

func identityOf(user *models.User) session.IdentitySummary {
	return session.IdentitySummary{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.FullName,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
