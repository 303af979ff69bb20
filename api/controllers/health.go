package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lumine-jewelry/lumine-backend/api/responses"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports process liveness plus dependency reachability.
func Health(db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", "database"), "health.dependency_unreachable")
				}
			} else {
				status["database"] = "ok"
			}
		}

		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["redis"] = "unreachable"
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", "redis"), "health.dependency_unreachable")
				}
			} else {
				status["redis"] = "ok"
			}
		}

		responses.WriteSuccess(w, status)
	}
}
