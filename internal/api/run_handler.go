package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/repo"
)

// ListRuns возвращает список runs с фильтрацией.
// GET /api/v1/runs?worker=...&status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "run journal is not configured")
		return
	}

	query := r.URL.Query()
	filter := repo.RunFilter{
		Worker: query.Get("worker"),
		Limit:  parseInt(query.Get("limit"), 50),
		Offset: parseInt(query.Get("offset"), 0),
	}

	if status := query.Get("status"); status != "" {
		s, ok := domain.ParseRunStatus(status)
		if !ok {
			BadRequest(w, "invalid status")
			return
		}
		filter.Status = s
	}

	runs, err := h.runs.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// GetRun возвращает run по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "run journal is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// parseInt парсит неотрицательное число с дефолтным значением.
func parseInt(s string, defaultVal int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
