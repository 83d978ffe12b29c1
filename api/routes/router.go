package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/flipradar-backend/api/controllers"
	"github.com/angelmondragon/flipradar-backend/api/middleware"
	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/internal/bidding"
	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

// RouterParams carry everything the HTTP surface needs.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Pingers map[string]controllers.Pinger

	Pricing pricing.Service
	Deals   deals.Service
	Scorer  *arbitrage.Scorer
	Bidding bidding.Service

	MetricsGatherer prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.Pingers))
	})

	if params.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(params.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/{productId}/price", controllers.ProductPrice(params.Pricing, logg))
			r.Get("/{productId}/price/breakdown", controllers.ProductPriceBreakdown(params.Pricing, logg))
		})
		r.Post("/catalog/price", controllers.CatalogPrice(params.Pricing, logg))

		r.Route("/deals", func(r chi.Router) {
			r.Post("/evaluate", controllers.DealEvaluate(params.Deals, logg))
			r.Post("/track", controllers.DealTrack(params.Deals, logg))
			r.Get("/", controllers.DealsList(params.Deals, logg))
			r.Get("/{dealId}", controllers.DealGet(params.Deals, logg))
			r.Post("/{dealId}/purchase", controllers.DealPurchase(params.Deals, logg))
			r.Post("/{dealId}/expire", controllers.DealExpire(params.Deals, logg))
		})

		r.Route("/criteria", func(r chi.Router) {
			r.Post("/", controllers.CriteriaCreate(params.Deals, logg))
			r.Get("/", controllers.CriteriaList(params.Deals, logg))
			r.Patch("/{criteriaId}/enabled", controllers.CriteriaSetEnabled(params.Deals, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/score", controllers.VehicleScore(params.Scorer, logg))
			r.Post("/score/batch", controllers.VehicleScoreBatch(params.Scorer, logg))
			r.Post("/{vehicleId}/auto-bid", controllers.VehicleAutoBid(params.Scorer, params.Bidding, logg))
			r.Get("/{vehicleId}/sessions", controllers.VehicleBidSessions(params.Bidding, logg))
		})
	})

	return r
}
