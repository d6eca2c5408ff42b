package controllers

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/internal/carousel"
	"github.com/aurumjoyeria/aurum-backend/internal/products"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

type mailStub struct {
	err error
}

func (m *mailStub) SendVerificationEmail(context.Context, string, string, string) error {
	return m.err
}

func (m *mailStub) SendPasswordResetEmail(context.Context, string, string, string) error {
	return m.err
}

func (m *mailStub) SendEmailChangeEmail(context.Context, string, string, string) error {
	return m.err
}

type sessionStub struct {
	data    map[string]session.IdentitySummary
	counter int
}

func newSessionStub() *sessionStub {
	return &sessionStub{data: make(map[string]session.IdentitySummary)}
}

func (s *sessionStub) Create(_ context.Context, identity session.IdentitySummary) (string, error) {
	s.counter++
	id := "sess-" + strings.Repeat("x", s.counter)
	s.data[id] = identity
	return id, nil
}

func (s *sessionStub) Refresh(_ context.Context, sessionID string, identity session.IdentitySummary) error {
	s.data[sessionID] = identity
	return nil
}

func (s *sessionStub) Destroy(_ context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

type storageStub struct {
	uploads map[string][]byte
	deleted []string
}

func newStorageStub() *storageStub {
	return &storageStub{uploads: make(map[string][]byte)}
}

func (s *storageStub) ObjectName(parts ...string) string {
	return strings.Join(append([]string{"media"}, parts...), "/")
}

func (s *storageStub) PublicURL(objectName string) string {
	return "https://cdn.test/aurum-media/" + objectName
}

func (s *storageStub) ObjectNameFromURL(publicURL string) (string, bool) {
	const prefix = "https://cdn.test/aurum-media/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(publicURL, prefix)
	return name, name != ""
}

func (s *storageStub) UploadObject(_ context.Context, objectName, _ string, data []byte) error {
	s.uploads[objectName] = data
	return nil
}

func (s *storageStub) DeleteObject(_ context.Context, objectName string) error {
	s.deleted = append(s.deleted, objectName)
	delete(s.uploads, objectName)
	return nil
}

type testEnv struct {
	auth     *auth.Service
	products *products.Service
	carousel *carousel.Service
	sessions *sessionStub
	storage  *storageStub
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "aurum_session", TTL: 168 * time.Hour}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "api.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Product{}, &models.CarouselItem{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := db.NewWithConn(conn)
	sessions := newSessionStub()
	storage := newStorageStub()

	authSvc, err := auth.NewService(auth.ServiceParams{
		DB:             client,
		Mailer:         &mailStub{},
		SessionManager: sessions,
		Logger:         logg,
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
			MinLength:        6,
		},
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "aurum-api",
			ExpirationMinutes: 60,
		},
	})
	require.NoError(t, err)

	productSvc, err := products.NewService(products.ServiceParams{
		DB:      client,
		Storage: storage,
		Logger:  logg,
		Media:   config.MediaConfig{MaxUploadBytes: 1 << 20, MaxDimensionPx: 64, JPEGQuality: 80},
	})
	require.NoError(t, err)

	carouselSvc, err := carousel.NewService(carousel.ServiceParams{
		DB:      client,
		Storage: storage,
		Logger:  logg,
		Media:   config.MediaConfig{MaxUploadBytes: 1 << 20, MaxDimensionPx: 64, JPEGQuality: 80},
	})
	require.NoError(t, err)

	return &testEnv{
		auth:     authSvc,
		products: productSvc,
		carousel: carouselSvc,
		sessions: sessions,
		storage:  storage,
	}
}
