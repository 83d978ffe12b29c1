package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/flipradar-backend/api/responses"
	"github.com/angelmondragon/flipradar-backend/api/validators"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

// ProductPrice serves the customer-facing price view. The true supplier and
// cost never appear in this payload.
func ProductPrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")

		result, err := svc.PriceProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result.View())
	}
}

// ProductPriceBreakdown serves the operator view including the cost report.
func ProductPriceBreakdown(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")

		result, err := svc.PriceProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"product_id":     result.ProductID,
			"customer_price": result.CustomerPrice,
			"breakdown":      result.Breakdown,
		})
	}
}

// CatalogPrice prices an item by category markup.
func CatalogPrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input pricing.CatalogItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.PriceCatalogItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}
