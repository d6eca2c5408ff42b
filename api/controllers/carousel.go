package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aurumjoyeria/aurum-backend/api/responses"
	"github.com/aurumjoyeria/aurum-backend/api/validators"
	"github.com/aurumjoyeria/aurum-backend/internal/carousel"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
)

// CarouselList serves the slides in display order. The storefront passes
// active=true; the admin panel omits the filter to see everything.
func CarouselList(svc *carousel.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]carousel.ItemDTO{"items": list})
	}
}

// CarouselGet serves one slide by ID.
func CarouselGet(svc *carousel.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid carousel item id"))
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

// CarouselCreate accepts a multipart form with the slide fields plus a
// mandatory "image" file.
func CarouselCreate(svc *carousel.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r, media.MaxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := carousel.CreateItemRequest{
			Title:  strings.TrimSpace(r.FormValue("title")),
			Active: true,
		}
		if v, ok := formValue(r, "description"); ok {
			req.Description = &v
		}
		if v, ok := formValue(r, "position"); ok {
			position, err := strconv.Atoi(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "position must be an integer"))
				return
			}
			req.Position = position
		}
		if v, ok := formValue(r, "active"); ok {
			active, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active must be a boolean"))
				return
			}
			req.Active = active
		}

		image, err := readCarouselImage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Image = image

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

// CarouselUpdate patches a slide. Only fields present in the form change;
// sending an "image" file replaces the artwork.
func CarouselUpdate(svc *carousel.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid carousel item id"))
			return
		}

		if err := parseMultipart(r, media.MaxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req carousel.UpdateItemRequest
		if v, ok := formValue(r, "title"); ok {
			req.Title = &v
		}
		if v, ok := formValue(r, "description"); ok {
			req.Description = &v
		}
		if v, ok := formValue(r, "position"); ok {
			position, err := strconv.Atoi(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "position must be an integer"))
				return
			}
			req.Position = &position
		}
		if v, ok := formValue(r, "active"); ok {
			active, err := strconv.ParseBool(v)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active must be a boolean"))
				return
			}
			req.Active = &active
		}

		if hasUploads(r, "image") {
			image, err := readCarouselImage(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.Image = image
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

// CarouselDelete removes a slide and its stored image.
func CarouselDelete(svc *carousel.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid carousel item id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func readCarouselImage(r *http.Request) (*carousel.ImageUpload, error) {
	uploads, err := readUploads(r, "image")
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}
	first := uploads[0]
	return &carousel.ImageUpload{Filename: first.Filename, Data: first.Data}, nil
}
