package controllers

import (
	"context"
	"net/http"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrizeWheel-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers ready only when both backing stores respond.
func HealthReady(cfg *config.Config, db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrizeWheel-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				checks["db"] = "down"
				healthy = false
			} else {
				checks["db"] = "up"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "up"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
