package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/products"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/pagination"
)

// ProductsList serves the public catalog with optional category, featured,
// and active filters.
func ProductsList(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := products.ListFilter{Featured: featured, Active: active}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filter.Category = &category
		}

		page, err := svc.List(r.Context(), filter, pagination.Params{Offset: offset, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductGet serves one product by ID.
func ProductGet(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ProductCategories lists the distinct categories in use.
func ProductCategories(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}

// ProductCreate accepts a multipart form with the product fields plus zero
// or more "images" files.
func ProductCreate(svc *products.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r, media.MaxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := products.CreateProductRequest{
			Name:   strings.TrimSpace(r.FormValue("name")),
			Active: true,
		}
		if v, ok := formValue(r, "description"); ok {
			req.Description = &v
		}
		if v, ok := formValue(r, "category"); ok {
			req.Category = &v
		}
		if v, ok := formValue(r, "price"); ok {
			price, err := decimal.NewFromString(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number"))
				return
			}
			req.Price = &price
		}
		if v, ok := formValue(r, "stock"); ok {
			stock, err := strconv.Atoi(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stock must be an integer"))
				return
			}
			req.Stock = stock
		}
		if v, ok := formValue(r, "featured"); ok {
			featured, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "featured must be a boolean"))
				return
			}
			req.Featured = featured
		}
		if v, ok := formValue(r, "active"); ok {
			active, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active must be a boolean"))
				return
			}
			req.Active = active
		}

		images, err := readUploads(r, "images")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Images = images

		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ProductUpdate patches a product. Only fields present in the form change;
// sending "images" files replaces the gallery.
func ProductUpdate(svc *products.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		if err := parseMultipart(r, media.MaxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req products.UpdateProductRequest
		if v, ok := formValue(r, "name"); ok {
			req.Name = &v
		}
		if v, ok := formValue(r, "description"); ok {
			req.Description = &v
		}
		if v, ok := formValue(r, "category"); ok {
			req.Category = &v
		}
		if v, ok := formValue(r, "price"); ok {
			price, err := decimal.NewFromString(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number"))
				return
			}
			req.Price = &price
		}
		if v, ok := formValue(r, "stock"); ok {
			stock, err := strconv.Atoi(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stock must be an integer"))
				return
			}
			req.Stock = &stock
		}
		if v, ok := formValue(r, "featured"); ok {
			featured, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "featured must be a boolean"))
				return
			}
			req.Featured = &featured
		}
		if v, ok := formValue(r, "active"); ok {
			active, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active must be a boolean"))
				return
			}
			req.Active = &active
		}

		if hasUploads(r, "images") {
			images, err := readUploads(r, "images")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.Images = images
		}

		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ProductDelete removes a product and its stored images.
func ProductDelete(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseMultipart(r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return pkgerrors.New(pkgerrors.CodeValidation, "upload too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func hasUploads(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

func readUploads(r *http.Request, field string) ([]products.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]products.ImageUpload, 0, len(headers))
	for _, header := range headers {
		data, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, products.ImageUpload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
	}
	return data, nil
}
