package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger verifica a conexão com a base de pedidos
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthcheckResponse struct {
	Status   string    `json:"status"`
	Time     time.Time `json:"time"`
	Database string    `json:"database"`
}

// HealthcheckHandler responde com o estado da API e, quando configurada, da base de pedidos
func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := HealthcheckResponse{
			Status:   "ok",
			Time:     time.Now(),
			Database: "disabled",
		}

		status := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			response.Database = "ok"
			if err := db.Ping(ctx); err != nil {
				response.Status = "degraded"
				response.Database = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, response)
	})
}
