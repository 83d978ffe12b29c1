package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/api/responses"
	"github.com/angelmondragon/flipradar-backend/api/validators"
	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

// sourceAPI marks observations supplied by API callers that name no source.
const sourceAPI = "api"

type evaluateDealRequest struct {
	ProductID    string  `json:"product_id" validate:"required"`
	Category     string  `json:"category"`
	CurrentPrice float64 `json:"current_price" validate:"gte=0"`
	Source       string  `json:"source"`
}

// DealEvaluate runs one observation through the deal monitor.
func DealEvaluate(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req evaluateDealRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := enums.ProductCategory(req.Category)
		if req.Category == "" {
			category = enums.ProductCategoryOther
		}
		source := req.Source
		if source == "" {
			source = sourceAPI
		}

		evaluation, err := svc.EvaluateCandidate(r.Context(), deals.Candidate{
			ProductID:    req.ProductID,
			Category:     category,
			CurrentPrice: req.CurrentPrice,
			Source:       source,
			ObservedAt:   time.Now(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, evaluation)
	}
}

type trackPriceRequest struct {
	ProductID  string     `json:"product_id" validate:"required"`
	Price      float64    `json:"price" validate:"gte=0"`
	Source     string     `json:"source"`
	ObservedAt *time.Time `json:"observed_at"`
}

// DealTrack records an observed price without evaluating it.
func DealTrack(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackPriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		observedAt := time.Now()
		if req.ObservedAt != nil {
			observedAt = *req.ObservedAt
		}
		source := req.Source
		if source == "" {
			source = sourceAPI
		}

		if err := svc.TrackPrice(r.Context(), req.ProductID, req.Price, source, observedAt); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"product_id":  req.ProductID,
			"price":       req.Price,
			"source":      source,
			"observed_at": observedAt,
		})
	}
}

// DealsList returns deals, optionally filtered by ?status=.
func DealsList(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.DealStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseDealStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		out, err := svc.ListDeals(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func DealGet(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseDealID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.GetDeal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealPurchase marks a deal purchased. Idempotent.
func DealPurchase(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseDealID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.MarkPurchased(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealExpire marks a deal expired. Idempotent.
func DealExpire(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseDealID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.MarkExpired(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

func parseDealID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "dealId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deal id")
	}
	return id, nil
}
