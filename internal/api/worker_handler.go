package api

import (
	"errors"
	"net/http"

	"github.com/shaiso/xws/internal/xws"
)

// ListWorkers возвращает зарегистрированные сервисы.
// GET /api/v1/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Names()
	result := make([]WorkerResponse, 0, len(names))
	for _, name := range names {
		t, err := h.registry.Lookup(name)
		if err != nil {
			// сервис удалён между Names и Lookup
			continue
		}
		result = append(result, WorkerFromType(t))
	}

	List(w, result, len(result))
}

// GetWorker возвращает описание сервиса.
// GET /api/v1/workers/{name}
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	t, err := h.registry.Lookup(r.PathValue("name"))
	if errors.Is(err, xws.ErrUnresolvableWorkerType) {
		NotFound(w, "worker not found")
		return
	}
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, WorkerFromType(t))
}
