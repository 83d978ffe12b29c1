package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/flipradar-backend/api/responses"
	"github.com/angelmondragon/flipradar-backend/api/validators"
	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/internal/bidding"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

type scoreVehicleRequest struct {
	Vehicle arbitrage.Vehicle `json:"vehicle"`
}

// VehicleScore analyzes one vehicle.
func VehicleScore(scorer *arbitrage.Scorer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreVehicleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analysis, err := scorer.ScoreVehicle(req.Vehicle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analysis)
	}
}

type scoreBatchRequest struct {
	Vehicles []arbitrage.Vehicle `json:"vehicles" validate:"required,min=1"`
}

// VehicleScoreBatch analyzes a set of vehicles, returned best first.
func VehicleScoreBatch(scorer *arbitrage.Scorer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreBatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analyses, err := scorer.ScoreBatch(r.Context(), req.Vehicles)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analyses)
	}
}

type autoBidRequest struct {
	Vehicle arbitrage.Vehicle `json:"vehicle"`
}

// VehicleAutoBid scores the vehicle, derives a strategy, and runs one full
// auto-bid session. The response always carries a terminal outcome.
func VehicleAutoBid(scorer *arbitrage.Scorer, bids bidding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req autoBidRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if vehicleID := chi.URLParam(r, "vehicleId"); vehicleID != "" && vehicleID != req.Vehicle.ID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "vehicle id mismatch between path and body"))
			return
		}

		analysis, err := scorer.ScoreVehicle(req.Vehicle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := bids.RunAutoBid(r.Context(), req.Vehicle, *analysis)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"analysis": analysis,
			"outcome":  outcome,
		})
	}
}

// VehicleBidSessions lists the audit trail for a vehicle.
func VehicleBidSessions(bids bidding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "vehicleId")
		if vehicleID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required"))
			return
		}

		sessions, err := bids.ListSessions(r.Context(), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessions)
	}
}
