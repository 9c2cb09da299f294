package scheduler

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/xws/internal/domain"
)

// jobsFile — YAML-файл с описанием jobs.
//
//	jobs:
//	  - name: nightly-ranking
//	    worker: weighted-sum
//	    input_dir: /data/in
//	    output_dir: /data/out/{{ date "2006-01-02" .Due }}
//	    cron: "0 3 * * *"
//	    timezone: Europe/Moscow
type jobsFile struct {
	Jobs []jobSpec `yaml:"jobs"`
}

type jobSpec struct {
	Name        string `yaml:"name"`
	Worker      string `yaml:"worker"`
	InputDir    string `yaml:"input_dir"`
	OutputDir   string `yaml:"output_dir"`
	Cron        string `yaml:"cron"`
	IntervalSec int    `yaml:"interval_sec"`
	Timezone    string `yaml:"timezone"`
	DryRun      bool   `yaml:"dry_run"`
	Validate    bool   `yaml:"validate"`
	Enabled     *bool  `yaml:"enabled"` // по умолчанию true
}

// LoadJobs читает и проверяет файл jobs.
func LoadJobs(path string) ([]*domain.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs разбирает и проверяет YAML с описанием jobs.
// Ошибки всех jobs собираются в одну.
func ParseJobs(data []byte) ([]*domain.Job, error) {
	var file jobsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidJob, err)
	}

	var (
		jobs []*domain.Job
		errs []error
		seen = make(map[string]bool)
	)
	for i, spec := range file.Jobs {
		if err := spec.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: jobs[%d] %q: %w", ErrInvalidJob, i, spec.Name, err))
			continue
		}
		if seen[spec.Name] {
			errs = append(errs, fmt.Errorf("%w: jobs[%d]: duplicate name %q", ErrInvalidJob, i, spec.Name))
			continue
		}
		seen[spec.Name] = true
		jobs = append(jobs, spec.toDomain())
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return jobs, nil
}

// CheckWorkers проверяет, что сервис каждой job зарегистрирован.
func CheckWorkers(jobs []*domain.Job, known func(name string) bool) error {
	var errs []error
	for _, job := range jobs {
		if !known(job.Worker) {
			errs = append(errs, fmt.Errorf("%w: %q: unknown worker %q", ErrInvalidJob, job.Name, job.Worker))
		}
	}
	return errors.Join(errs...)
}

func (s *jobSpec) validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Worker == "" {
		errs = append(errs, errors.New("worker is required"))
	}
	if s.InputDir == "" {
		errs = append(errs, errors.New("input_dir is required"))
	}
	if s.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	// пробный рендеринг ловит и ошибки синтаксиса, и неизвестные поля
	sample := PathContext{Job: s.Name, Worker: s.Worker, Due: time.Now().UTC()}
	for _, dir := range []string{s.InputDir, s.OutputDir} {
		if _, err := RenderPath(dir, sample); err != nil {
			errs = append(errs, err)
		}
	}

	switch {
	case s.Cron != "":
		if err := ValidateCronExpr(s.Cron); err != nil {
			errs = append(errs, err)
		}
	case s.IntervalSec > 0:
	case s.IntervalSec < 0:
		errs = append(errs, fmt.Errorf("interval_sec must be positive, got %d", s.IntervalSec))
	default:
		errs = append(errs, ErrNoSchedule)
	}

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err))
		}
	}

	return errors.Join(errs...)
}

func (s *jobSpec) toDomain() *domain.Job {
	enabled := true
	if s.Enabled != nil {
		enabled = *s.Enabled
	}
	return &domain.Job{
		Name:        s.Name,
		Worker:      s.Worker,
		InputDir:    s.InputDir,
		OutputDir:   s.OutputDir,
		CronExpr:    s.Cron,
		IntervalSec: s.IntervalSec,
		Timezone:    s.Timezone,
		DryRun:      s.DryRun,
		Validate:    s.Validate,
		Enabled:     enabled,
	}
}
