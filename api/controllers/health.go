package controllers

import (
	"context"
	"net/http"

	"github.com/bargainly/bargainly-backend/api/responses"
	"github.com/bargainly/bargainly-backend/pkg/config"
	"github.com/bargainly/bargainly-backend/pkg/db"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

const envHeader = "X-Bargainly-Env"

// Pinger is the readiness contract shared by the backing clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the backing dependencies. Nil pingers are
// skipped so optional clients do not gate readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP, pubsubP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}
		if pubsubP != nil {
			if err := pubsubP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pubsub unavailable"))
				return
			}
			checks["pubsub"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
