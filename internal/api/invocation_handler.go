package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
)

// CreateInvocation публикует запрос на выполнение сервиса.
// POST /api/v1/invocations
//
// Сервис выполняется worker'ом асинхронно; ответ 202 содержит ID запроса,
// по которому run доступен через GET /api/v1/invocations/{id}/run.
func (h *Handler) CreateInvocation(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		Unavailable(w, "invocation queue is not configured")
		return
	}

	var req CreateInvocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Валидация
	if req.Worker == "" {
		BadRequest(w, "worker is required")
		return
	}
	if !h.registry.Has(req.Worker) {
		NotFound(w, "worker not found")
		return
	}
	if !filepath.IsAbs(req.InputDir) || !filepath.IsAbs(req.OutputDir) {
		BadRequest(w, "input_dir and output_dir must be absolute paths")
		return
	}

	inv := domain.Invocation{
		ID:          uuid.New(),
		Worker:      req.Worker,
		InputDir:    req.InputDir,
		OutputDir:   req.OutputDir,
		DryRun:      req.DryRun,
		Validate:    req.Validate,
		Source:      "api",
		RequestedAt: time.Now(),
	}
	if req.ID != nil {
		inv.ID = *req.ID
	}
	if err := inv.Check(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.publisher.PublishInvocationRequested(r.Context(), inv); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.logger.Info("invocation published",
		"invocation_id", inv.ID,
		"worker", inv.Worker,
	)

	Accepted(w, InvocationFromDomain(inv))
}

// GetInvocationRun возвращает run, созданный по запросу.
// GET /api/v1/invocations/{id}/run
//
// 404 означает, что worker ещё не начал выполнение.
func (h *Handler) GetInvocationRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "run journal is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid invocation id")
		return
	}

	run, err := h.runs.GetByInvocationID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}
