package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/api/responses"
	"github.com/angelmondragon/flipradar-backend/api/validators"
	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

type createCriteriaRequest struct {
	ProductID          *string  `json:"product_id"`
	Category           *string  `json:"category"`
	MaxPrice           float64  `json:"max_price" validate:"gt=0"`
	MinDiscountPercent *float64 `json:"min_discount_percent" validate:"omitempty,gte=0,lte=100"`
	AutoCheckout       bool     `json:"auto_checkout"`
	Enabled            bool     `json:"enabled"`
}

// CriteriaCreate registers a new operator deal rule.
func CriteriaCreate(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCriteriaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		criteria := &models.DealCriteria{
			ProductID:          req.ProductID,
			MaxPrice:           req.MaxPrice,
			MinDiscountPercent: req.MinDiscountPercent,
			AutoCheckout:       req.AutoCheckout,
			Enabled:            req.Enabled,
		}
		if req.Category != nil {
			category := enums.ProductCategory(*req.Category)
			if !category.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid category").
						WithDetails(map[string]string{"category": *req.Category}))
				return
			}
			criteria.Category = &category
		}

		if err := svc.CreateCriteria(r.Context(), criteria); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, criteria)
	}
}

func CriteriaList(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.ListCriteria(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// CriteriaSetEnabled toggles a rule on or off.
func CriteriaSetEnabled(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "criteriaId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid criteria id"))
			return
		}

		var req setEnabledRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetCriteriaEnabled(r.Context(), id, req.Enabled); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "enabled": req.Enabled})
	}
}
