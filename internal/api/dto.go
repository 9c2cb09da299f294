package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/xws"
)

// Worker DTOs

// FieldResponse — поле сервиса.
type FieldResponse struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	File     string `json:"file,omitempty"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// WorkerResponse — ответ с описанием сервиса.
type WorkerResponse struct {
	Name   string          `json:"name"`
	Fields []FieldResponse `json:"fields"`
}

// WorkerFromType конвертирует xws.Type в WorkerResponse.
func WorkerFromType(t *xws.Type) WorkerResponse {
	fields := t.Fields()
	resp := WorkerResponse{
		Name:   t.Name(),
		Fields: make([]FieldResponse, len(fields)),
	}
	for i, f := range fields {
		resp.Fields[i] = FieldResponse{
			Name:     f.Name,
			Role:     f.Role.String(),
			Type:     f.Type.String(),
			Optional: f.Optional,
		}
		if f.Role.HasFile() {
			resp.Fields[i].File = f.File()
		}
	}
	return resp
}

// Invocation DTOs

// CreateInvocationRequest — запрос на выполнение сервиса.
type CreateInvocationRequest struct {
	// ID — ключ идемпотентности (опционально; если не задан — генерируется).
	ID        *uuid.UUID `json:"id,omitempty"`
	Worker    string     `json:"worker"`
	InputDir  string     `json:"input_dir"`
	OutputDir string     `json:"output_dir"`
	DryRun    bool       `json:"dry_run,omitempty"`
	Validate  bool       `json:"validate,omitempty"`
}

// InvocationResponse — ответ с опубликованным запросом.
type InvocationResponse struct {
	ID          uuid.UUID `json:"id"`
	Worker      string    `json:"worker"`
	InputDir    string    `json:"input_dir"`
	OutputDir   string    `json:"output_dir"`
	DryRun      bool      `json:"dry_run"`
	Validate    bool      `json:"validate"`
	RequestedAt time.Time `json:"requested_at"`
}

// InvocationFromDomain конвертирует domain.Invocation в InvocationResponse.
func InvocationFromDomain(inv domain.Invocation) InvocationResponse {
	return InvocationResponse{
		ID:          inv.ID,
		Worker:      inv.Worker,
		InputDir:    inv.InputDir,
		OutputDir:   inv.OutputDir,
		DryRun:      inv.DryRun,
		Validate:    inv.Validate,
		RequestedAt: inv.RequestedAt,
	}
}

// Run DTOs

// RunResponse — ответ с run.
type RunResponse struct {
	ID           uuid.UUID  `json:"id"`
	InvocationID uuid.UUID  `json:"invocation_id"`
	Worker       string     `json:"worker"`
	InputDir     string     `json:"input_dir"`
	OutputDir    string     `json:"output_dir"`
	DryRun       bool       `json:"dry_run"`
	Status       string     `json:"status"`
	Failures     []string   `json:"failures,omitempty"`
	Outputs      []string   `json:"outputs,omitempty"`
	Error        string     `json:"error,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	DurationMs   int64      `json:"duration_ms,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	return RunResponse{
		ID:           r.ID,
		InvocationID: r.InvocationID,
		Worker:       r.Worker,
		InputDir:     r.InputDir,
		OutputDir:    r.OutputDir,
		DryRun:       r.DryRun,
		Status:       r.Status.String(),
		Failures:     r.Failures,
		Outputs:      r.Outputs,
		Error:        r.Error,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		DurationMs:   r.Duration().Milliseconds(),
		CreatedAt:    r.CreatedAt,
	}
}
