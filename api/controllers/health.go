package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/flipradar-backend/api/responses"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

const envHeader = "X-FlipRadar-Env"

// Pinger is the health surface shared by the datastore clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		failed := false
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				checks[name] = "down"
				failed = true
				logg.Error(logg.WithField(r.Context(), "dependency", name), "readiness check failed", err)
				continue
			}
			checks[name] = "up"
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
