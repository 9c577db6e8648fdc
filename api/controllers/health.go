package controllers

import (
	"net/http"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-B2B-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when both backing stores answer.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-B2B-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
