package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, extra ...Middleware) {
	// Middleware chain
	chain := Chain(append([]Middleware{
		Recovery(h.logger),
		Logging(h.logger),
	}, extra...)...)

	// Workers
	mux.Handle("GET /api/v1/workers", chain(http.HandlerFunc(h.ListWorkers)))
	mux.Handle("GET /api/v1/workers/{name}", chain(http.HandlerFunc(h.GetWorker)))

	// Invocations
	mux.Handle("POST /api/v1/invocations", chain(http.HandlerFunc(h.CreateInvocation)))
	mux.Handle("GET /api/v1/invocations/{id}/run", chain(http.HandlerFunc(h.GetInvocationRun)))

	// Runs
	mux.Handle("GET /api/v1/runs", chain(http.HandlerFunc(h.ListRuns)))
	mux.Handle("GET /api/v1/runs/{id}", chain(http.HandlerFunc(h.GetRun)))
}
