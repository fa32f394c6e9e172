package salary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	salaryerrors "github.com/devadmin007/employee-management/internal/salary/errors"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, filter ListSalaryFilter) ([]SalaryResponse, int64, error)
	GetByID(ctx context.Context, id string) (SalaryResponse, error)
	Generate(ctx context.Context, now time.Time) (GenerationSummary, error)
	RenderPayslip(ctx context.Context, id string) ([]byte, error)
	PayslipForDelivery(ctx context.Context, id string) (PayslipDelivery, error)
}

// PayslipDelivery bundles everything the mail consumer needs to send one
// payslip.
type PayslipDelivery struct {
	EmployeeEmail string
	EmployeeName  string
	SlipNumber    string
	Month         string
	Year          int
	PDF           []byte
}

type service struct {
	repo      Repository
	generator *Generator
	logger    *zap.Logger
}

func NewService(repo Repository, generator *Generator, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{repo: repo, generator: generator, logger: l}
}

func (s *service) List(ctx context.Context, filter ListSalaryFilter) ([]SalaryResponse, int64, error) {
	records, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(records), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) Generate(ctx context.Context, now time.Time) (GenerationSummary, error) {
	return s.generator.GenerateMonthly(ctx, now)
}

func (s *service) RenderPayslip(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return RenderPayslipPDF(*rec)
}

func (s *service) PayslipForDelivery(ctx context.Context, id string) (PayslipDelivery, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return PayslipDelivery{}, err
	}

	pdf, err := RenderPayslipPDF(*rec)
	if err != nil {
		return PayslipDelivery{}, err
	}

	delivery := PayslipDelivery{
		EmployeeName: rec.Employee.FullName(),
		SlipNumber:   rec.SlipNumber,
		Month:        rec.Month,
		Year:         rec.Year,
		PDF:          pdf,
	}
	if rec.Employee != nil {
		delivery.EmployeeEmail = rec.Employee.Email
	}
	return delivery, nil
}

func (s *service) findRecord(ctx context.Context, id string) (*SalaryRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, salaryerrors.ErrInvalidSalaryID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salaryerrors.ErrSalaryNotFound
		}
		return nil, err
	}
	return rec, nil
}
