package controllers

import (
	"net/http"

	"github.com/fastchange/fastchange-backend/api/responses"
	"github.com/fastchange/fastchange-backend/pkg/config"
	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FastChange-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency status. Redis is optional, so a nil
// pinger reports "disabled" rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FastChange-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if redisP == nil {
			checks["redis"] = "disabled"
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "redis readiness check failed", err)
			}
		} else {
			checks["redis"] = "up"
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
