package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/kalon-network/testnet-faucet/docs"
	"github.com/kalon-network/testnet-faucet/internal/handler"
	"github.com/kalon-network/testnet-faucet/web"
)

// NewRouter sets up the faucet's full HTTP surface.
func NewRouter(faucetHandler *handler.FaucetHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(Instrument)

	// Faucet API
	r.Post("/claim", faucetHandler.Claim)
	r.Get("/status", faucetHandler.Status)
	r.Get("/challenge", faucetHandler.Challenge)
	r.Get("/qr", faucetHandler.QR)

	// Operational endpoints
	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Static frontend
	r.Handle("/*", http.FileServer(http.FS(web.Public())))

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
