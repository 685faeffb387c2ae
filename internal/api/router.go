package api

import (
	"net/http"
	"time"

	_ "github.com/AlexZinkM/anvil-tx/docs"

	"github.com/AlexZinkM/anvil-tx/cardano"
	"github.com/AlexZinkM/anvil-tx/internal/handler"
	"github.com/AlexZinkM/anvil-tx/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *cardano.Service, logger *zap.Logger) http.Handler {
	cardanoHandler := handler.NewCardanoHandler(svc, logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", cardanoHandler.Health)

	// Cardano endpoints
	mux.HandleFunc("/cardano/build", cardanoHandler.Build)
	mux.HandleFunc("/cardano/submit", cardanoHandler.Submit)
	mux.HandleFunc("/cardano/inspect", cardanoHandler.Inspect)
	mux.HandleFunc("/cardano/transactions", cardanoHandler.Transactions)
	mux.HandleFunc("/cardano/transactions/", cardanoHandler.Transaction)

	return logRequests(mux, logger)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
