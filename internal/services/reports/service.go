package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
	"github.com/mlisovenko/vitrina/backend/internal/domain/model"
	"github.com/mlisovenko/vitrina/backend/internal/pkg/validate"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const (
	maxDescriptionLen   = 2000
	maxReporterNameLen  = 120
	defaultListPageSize = 20
	maxListPageSize     = 100
)

type Repository interface {
	Create(ctx context.Context, w pgrepo.ReportWrite, at time.Time) (pgrepo.ReportRow, error)
	GetByID(ctx context.Context, id int64) (pgrepo.ReportRow, error)
	List(ctx context.Context, status string, limit, offset int) ([]pgrepo.ReportRow, int64, error)
	ListPending(ctx context.Context, afterID int64, limit int) ([]pgrepo.ReportRow, error)
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) (pgrepo.ReportRow, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type CreateInput struct {
	ProfileID     *int64
	Reason        string
	Description   string
	ReporterName  string
	ReporterEmail string
}

type ListInput struct {
	Status string
	Limit  int
	Offset int
}

type ListResult struct {
	Items []model.Report
	Total int64
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create files a report from any visitor, authenticated or not. Reporter
// contact is optional; the reason must be one of the known set.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Report, error) {
	reason, ok := enums.ParseReportReason(in.Reason)
	if !ok {
		return model.Report{}, fmt.Errorf("%w: unknown reason", ErrValidation)
	}

	description := strings.TrimSpace(in.Description)
	if len(description) > maxDescriptionLen {
		return model.Report{}, fmt.Errorf("%w: description too long", ErrValidation)
	}
	if reason == enums.ReportReasonOther && description == "" {
		return model.Report{}, fmt.Errorf("%w: description required for reason other", ErrValidation)
	}

	name := strings.TrimSpace(in.ReporterName)
	if len(name) > maxReporterNameLen {
		return model.Report{}, fmt.Errorf("%w: reporter name too long", ErrValidation)
	}

	email := strings.TrimSpace(in.ReporterEmail)
	if email != "" {
		normalized, ok := validate.NormalizeEmail(email)
		if !ok {
			return model.Report{}, fmt.Errorf("%w: invalid reporter email", ErrValidation)
		}
		email = normalized
	}

	if in.ProfileID != nil && *in.ProfileID <= 0 {
		return model.Report{}, fmt.Errorf("%w: invalid profile id", ErrValidation)
	}

	row, err := s.repo.Create(ctx, pgrepo.ReportWrite{
		ProfileID:     in.ProfileID,
		Reason:        string(reason),
		Description:   description,
		ReporterName:  name,
		ReporterEmail: email,
	}, s.now().UTC())
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}
	return toModel(row), nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Report, error) {
	row, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgrepo.ErrReportNotFound) {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	return toModel(row), nil
}

func (s *Service) List(ctx context.Context, in ListInput) (ListResult, error) {
	status := strings.TrimSpace(in.Status)
	if status != "" {
		if _, ok := enums.ParseReportStatus(status); !ok {
			return ListResult{}, fmt.Errorf("%w: unknown status", ErrValidation)
		}
	}

	if in.Limit <= 0 {
		in.Limit = defaultListPageSize
	}
	if in.Limit > maxListPageSize {
		in.Limit = maxListPageSize
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, status, in.Limit, in.Offset)
	if err != nil {
		return ListResult{}, err
	}

	items := make([]model.Report, 0, len(rows))
	for _, row := range rows {
		items = append(items, toModel(row))
	}
	return ListResult{Items: items, Total: total}, nil
}

// Pending pages the moderation queue oldest first by id cursor.
func (s *Service) Pending(ctx context.Context, afterID int64, limit int) ([]model.Report, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := s.repo.ListPending(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]model.Report, 0, len(rows))
	for _, row := range rows {
		items = append(items, toModel(row))
	}
	return items, nil
}

// Transition moves a report to the next lifecycle status. The current
// status is read first so an illegal jump fails before any write.
func (s *Service) Transition(ctx context.Context, id int64, nextRaw string) (model.Report, error) {
	next, ok := enums.ParseReportStatus(nextRaw)
	if !ok {
		return model.Report{}, fmt.Errorf("%w: unknown status", ErrValidation)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Report{}, err
	}

	if !current.Status.CanTransitionTo(next) {
		return model.Report{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	row, err := s.repo.UpdateStatus(ctx, id, string(next), s.now().UTC())
	if errors.Is(err, pgrepo.ErrReportNotFound) {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	return toModel(row), nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func toModel(row pgrepo.ReportRow) model.Report {
	return model.Report{
		ID:            row.ID,
		ProfileID:     row.ProfileID,
		Reason:        enums.ReportReason(row.Reason),
		Description:   row.Description,
		ReporterName:  row.ReporterName,
		ReporterEmail: row.ReporterEmail,
		Status:        enums.ReportStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
