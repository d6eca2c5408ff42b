package products

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/db/models"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/pagination"
)

const publicHost = "https://cdn.test/aurum-media/"

type storageStub struct {
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newStorageStub() *storageStub {
	return &storageStub{uploads: make(map[string][]byte)}
}

func (s *storageStub) ObjectName(parts ...string) string {
	return strings.Join(append([]string{"media"}, parts...), "/")
}

func (s *storageStub) PublicURL(objectName string) string {
	return publicHost + objectName
}

func (s *storageStub) ObjectNameFromURL(publicURL string) (string, bool) {
	if !strings.HasPrefix(publicURL, publicHost) {
		return "", false
	}
	name := strings.TrimPrefix(publicURL, publicHost)
	return name, name != ""
}

func (s *storageStub) UploadObject(_ context.Context, objectName, _ string, data []byte) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[objectName] = data
	return nil
}

func (s *storageStub) DeleteObject(_ context.Context, objectName string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, objectName)
	delete(s.uploads, objectName)
	return nil
}

func newTestService(t *testing.T) (*Service, *storageStub) {
	t.Helper()

	conn, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "products.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))

	storage := newStorageStub()
	svc, err := NewService(ServiceParams{
		DB:      db.NewWithConn(conn),
		Storage: storage,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Media:   config.MediaConfig{MaxDimensionPx: 64, JPEGQuality: 80},
	})
	require.NoError(t, err)
	return svc, storage
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	return typed.Code()
}

func createProduct(t *testing.T, svc *Service, name string, mutate func(*CreateProductRequest)) *ProductDTO {
	t.Helper()
	price := decimal.NewFromFloat(19.90)
	req := CreateProductRequest{
		Name:   name,
		Price:  &price,
		Stock:  3,
		Active: true,
	}
	if mutate != nil {
		mutate(&req)
	}
	dto, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return dto
}

func TestCreateAndGet(t *testing.T) {
	svc, storage := newTestService(t)

	created := createProduct(t, svc, "Anillo de oro", func(req *CreateProductRequest) {
		req.Description = strPtr("Oro de 18 quilates")
		req.Category = strPtr("anillos")
		req.Images = []ImageUpload{{Filename: "ring.png", Data: pngBytes(t, 10, 10)}}
	})

	require.NotNil(t, created.ImageURL)
	assert.True(t, strings.HasPrefix(*created.ImageURL, publicHost+"media/products/"))
	assert.Len(t, created.ImageURLs, 1)
	assert.Len(t, storage.uploads, 1)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anillo de oro", got.Name)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(19.90)))
	require.NotNil(t, got.Category)
	assert.Equal(t, "anillos", *got.Category)
	assert.Equal(t, created.ImageURLs, got.ImageURLs)
}

func TestCreateWithoutImage(t *testing.T) {
	svc, storage := newTestService(t)

	created := createProduct(t, svc, "Pulsera", nil)
	assert.Nil(t, created.ImageURL)
	assert.Empty(t, created.ImageURLs)
	assert.Empty(t, storage.uploads)
}

func TestCreateRejectsNegativeValues(t *testing.T) {
	svc, _ := newTestService(t)

	negative := decimal.NewFromInt(-1)
	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "x", Price: &negative})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))

	_, err = svc.Create(context.Background(), CreateProductRequest{Name: "x", Stock: -1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestCreateUploadFailureAborts(t *testing.T) {
	svc, storage := newTestService(t)
	storage.uploadErr = pkgerrors.New(pkgerrors.CodeDependency, "bucket down")

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:   "Collar",
		Images: []ImageUpload{{Filename: "a.png", Data: pngBytes(t, 4, 4)}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, errCode(t, err))

	page, err := svc.List(context.Background(), ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}

func TestCreateCorruptImageRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:   "Collar",
		Images: []ImageUpload{{Filename: "a.png", Data: []byte("not an image")}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestCreateWithoutStorageConfigured(t *testing.T) {
	svc, _ := newTestService(t)
	svc.storage = nil

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:   "Collar",
		Images: []ImageUpload{{Filename: "a.png", Data: pngBytes(t, 4, 4)}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, errCode(t, err))
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)

	createProduct(t, svc, "Anillo", func(req *CreateProductRequest) {
		req.Category = strPtr("anillos")
		req.Featured = true
	})
	createProduct(t, svc, "Collar", func(req *CreateProductRequest) {
		req.Category = strPtr("collares")
	})
	createProduct(t, svc, "Descatalogado", func(req *CreateProductRequest) {
		req.Category = strPtr("anillos")
		req.Active = false
	})

	all, err := svc.List(context.Background(), ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)

	featured := true
	page, err := svc.List(context.Background(), ListFilter{Featured: &featured}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Anillo", page.Products[0].Name)

	category := "anillos"
	active := true
	page, err = svc.List(context.Background(), ListFilter{Category: &category, Active: &active}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Anillo", page.Products[0].Name)
	assert.EqualValues(t, 1, page.Total)
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"a", "b", "c"} {
		createProduct(t, svc, name, nil)
	}

	page, err := svc.List(context.Background(), ListFilter{}, pagination.Params{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)

	rest, err := svc.List(context.Background(), ListFilter{}, pagination.Params{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Products, 1)
}

func TestCategories(t *testing.T) {
	svc, _ := newTestService(t)
	createProduct(t, svc, "a", func(req *CreateProductRequest) { req.Category = strPtr("collares") })
	createProduct(t, svc, "b", func(req *CreateProductRequest) { req.Category = strPtr("anillos") })
	createProduct(t, svc, "c", func(req *CreateProductRequest) { req.Category = strPtr("anillos") })
	createProduct(t, svc, "d", nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"anillos", "collares"}, categories)
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	created := createProduct(t, svc, "Anillo", func(req *CreateProductRequest) {
		req.Category = strPtr("anillos")
	})

	newPrice := decimal.NewFromFloat(25.50)
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		Name:  strPtr("Anillo de plata"),
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anillo de plata", updated.Name)
	require.NotNil(t, updated.Price)
	assert.True(t, updated.Price.Equal(newPrice))
	require.NotNil(t, updated.Category)
	assert.Equal(t, "anillos", *updated.Category)
}

func TestUpdateReplacesImages(t *testing.T) {
	svc, storage := newTestService(t)
	created := createProduct(t, svc, "Anillo", func(req *CreateProductRequest) {
		req.Images = []ImageUpload{{Filename: "old.png", Data: pngBytes(t, 8, 8)}}
	})
	oldName, ok := storage.ObjectNameFromURL(created.ImageURLs[0])
	require.True(t, ok)

	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		Images: []ImageUpload{{Filename: "new.png", Data: pngBytes(t, 8, 8)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.ImageURLs, 1)
	assert.NotEqual(t, created.ImageURLs[0], updated.ImageURLs[0])
	assert.Contains(t, storage.deleted, oldName)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{Name: strPtr("x")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
}

func TestDeleteRemovesRowAndImages(t *testing.T) {
	svc, storage := newTestService(t)
	created := createProduct(t, svc, "Anillo", func(req *CreateProductRequest) {
		req.Images = []ImageUpload{{Filename: "a.png", Data: pngBytes(t, 8, 8)}}
	})

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err := svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
	assert.Empty(t, storage.uploads)
}

func TestDeleteToleratesStorageFailure(t *testing.T) {
	svc, storage := newTestService(t)
	created := createProduct(t, svc, "Anillo", func(req *CreateProductRequest) {
		req.Images = []ImageUpload{{Filename: "a.png", Data: pngBytes(t, 8, 8)}}
	})
	storage.deleteErr = pkgerrors.New(pkgerrors.CodeDependency, "bucket down")

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err := svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
}
