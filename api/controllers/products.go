package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/api/validators"
	productsvc "github.com/spinwin/prizewheel-backend/internal/products"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type createProductRequest struct {
	Label         string   `json:"label" validate:"required,min=2,max=120"`
	LabelVariants []string `json:"label_variants,omitempty" validate:"omitempty,dive,min=1,max=120"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	UnitValue     string   `json:"unit_value" validate:"omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	Label         *string   `json:"label,omitempty" validate:"omitempty,min=2,max=120"`
	LabelVariants *[]string `json:"label_variants,omitempty" validate:"omitempty,dive,min=1,max=120"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	UnitValue     *string   `json:"unit_value,omitempty"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

func (p createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	input := productsvc.CreateProductInput{
		Label:         p.Label,
		LabelVariants: p.LabelVariants,
		Description:   p.Description,
		IsActive:      true,
	}
	if p.IsActive != nil {
		input.IsActive = *p.IsActive
	}
	if p.UnitValue != "" {
		value, err := decimal.NewFromString(p.UnitValue)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit value")
		}
		input.UnitValue = value
	}
	return input, nil
}

func (p updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Label:         p.Label,
		LabelVariants: p.LabelVariants,
		Description:   p.Description,
		IsActive:      p.IsActive,
	}
	if p.UnitValue != nil {
		value, err := decimal.NewFromString(*p.UnitValue)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit value")
		}
		input.UnitValue = &value
	}
	return input, nil
}

func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
