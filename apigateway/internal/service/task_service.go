package service

import (
	"context"
	"fmt"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
	"github.com/locvowork/task_management_sample/apigateway/pkg/simpleexcel"
)

type TaskService interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	// Edit changes content fields; status changes go through UpdateStatus.
	Edit(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) (string, error)
	Search(ctx context.Context, keyword string) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, *summary.StatusWeek, error)
	UpdatePriority(ctx context.Context, id string, priority domain.Priority) (*domain.Task, error)
	WeeklySummary(ctx context.Context) ([]summary.Bucket, error)
	ExportWeeklySummary(ctx context.Context) ([]byte, error)
}

// SummaryCache stores computed weekly reports under an invalidation
// generation. Invalidate must advance the generation.
type SummaryCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, year int) (*summary.Report, bool, error)
	Set(ctx context.Context, gen int64, report *summary.Report) error
	Invalidate(ctx context.Context) error
}

type taskService struct {
	repo           domain.TaskRepository
	engine         *summary.Engine
	cache          SummaryCache
	exportTemplate *simpleexcel.ReportTemplate
}

// Option configures the task service.
type Option func(*taskService)

// WithSummaryCache enables cache-aside for weekly summaries.
func WithSummaryCache(c SummaryCache) Option {
	return func(s *taskService) {
		s.cache = c
	}
}

// WithExportTemplate replaces the default xlsx layout.
func WithExportTemplate(tpl *simpleexcel.ReportTemplate) Option {
	return func(s *taskService) {
		if tpl != nil {
			s.exportTemplate = tpl
		}
	}
}

func NewTaskService(repo domain.TaskRepository, engine *summary.Engine, opts ...Option) TaskService {
	s := &taskService{
		repo:           repo,
		engine:         engine,
		exportTemplate: defaultExportTemplate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskService) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListAll(ctx)
}

func (s *taskService) Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	task, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Edit(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	patch.Status = domain.Optional[domain.Status]{}
	return s.Update(ctx, id, patch)
}

func (s *taskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) (string, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return deleted, nil
}

func (s *taskService) Search(ctx context.Context, keyword string) ([]domain.Task, error) {
	return s.repo.Search(ctx, keyword)
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, *summary.StatusWeek, error) {
	if !status.Valid() {
		return nil, nil, &domain.ValidationError{Message: domain.MsgInvalidStatus}
	}
	task, err := s.Update(ctx, id, domain.TaskPatch{Status: domain.Some(status)})
	if err != nil {
		return nil, nil, err
	}
	week, err := s.engine.CurrentWeek(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize current week: %w", err)
	}
	return task, week, nil
}

func (s *taskService) UpdatePriority(ctx context.Context, id string, priority domain.Priority) (*domain.Task, error) {
	if !priority.Valid() {
		return nil, &domain.ValidationError{Message: domain.MsgInvalidPriority}
	}
	return s.Update(ctx, id, domain.TaskPatch{Priority: domain.Some(priority)})
}

func (s *taskService) WeeklySummary(ctx context.Context) ([]summary.Bucket, error) {
	report, err := s.weeklyReport(ctx)
	if err != nil {
		return nil, err
	}
	return report.Buckets, nil
}

func (s *taskService) weeklyReport(ctx context.Context) (*summary.Report, error) {
	if s.cache == nil {
		return s.engine.Weekly(ctx)
	}

	// The generation is read before the tasks so a mutation that finishes
	// during the computation leaves the result under an outdated generation.
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		logger.WarnLog(ctx, "weekly summary cache unavailable: %v", err)
		return s.engine.Weekly(ctx)
	}

	report, hit, err := s.cache.Get(ctx, gen, s.engine.ReferenceYear())
	if err != nil {
		logger.WarnLog(ctx, "weekly summary cache read failed: %v", err)
	} else if hit {
		return report, nil
	}

	report, err = s.engine.Weekly(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, gen, report); err != nil {
		logger.WarnLog(ctx, "weekly summary cache write failed: %v", err)
	}
	return report, nil
}

func (s *taskService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.WarnLog(ctx, "weekly summary cache invalidation failed: %v", err)
	}
}
