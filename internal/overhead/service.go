package overhead

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
)

type overheadService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &overheadService{
		repo:   repo,
		logger: logger,
	}
}

func (s *overheadService) Create(ctx context.Context, userID int64, cmd CreateCommand) (*domain.Overhead, error) {
	if err := validateOverhead(cmd.Category, cmd.Description, cmd.Amount, cmd.ExpenseDate, cmd.IsRecurring, cmd.RecurringFrequency); err != nil {
		return nil, err
	}

	overhead := domain.Overhead{
		UserID:             userID,
		Category:           cmd.Category,
		Subcategory:        cmd.Subcategory,
		Description:        cmd.Description,
		Amount:             cmd.Amount.Round(2),
		ExpenseDate:        cmd.ExpenseDate,
		IsRecurring:        cmd.IsRecurring,
		RecurringFrequency: cmd.RecurringFrequency,
	}
	if !cmd.IsRecurring {
		overhead.RecurringFrequency = nil
	}

	id, err := s.repo.Insert(ctx, overhead)
	if err != nil {
		return nil, err
	}

	s.logger.Info("overhead created",
		zap.Int64("overheadId", id),
		zap.String("category", string(cmd.Category)),
		zap.String("amount", overhead.Amount.String()))

	return s.repo.FindByIDAndUser(ctx, id, userID)
}

func (s *overheadService) Get(ctx context.Context, userID, overheadID int64) (*domain.Overhead, error) {
	return s.repo.FindByIDAndUser(ctx, overheadID, userID)
}

func (s *overheadService) Update(ctx context.Context, userID int64, cmd UpdateCommand) (*domain.Overhead, error) {
	if err := validateOverhead(cmd.Category, cmd.Description, cmd.Amount, cmd.ExpenseDate, cmd.IsRecurring, cmd.RecurringFrequency); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByIDAndUser(ctx, cmd.OverheadID, userID)
	if err != nil {
		return nil, err
	}

	existing.Category = cmd.Category
	existing.Subcategory = cmd.Subcategory
	existing.Description = cmd.Description
	existing.Amount = cmd.Amount.Round(2)
	existing.ExpenseDate = cmd.ExpenseDate
	existing.IsRecurring = cmd.IsRecurring
	existing.RecurringFrequency = cmd.RecurringFrequency
	if !cmd.IsRecurring {
		existing.RecurringFrequency = nil
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	return s.repo.FindByIDAndUser(ctx, cmd.OverheadID, userID)
}

func (s *overheadService) Delete(ctx context.Context, userID, overheadID int64) error {
	return s.repo.Delete(ctx, overheadID, userID)
}

func (s *overheadService) List(ctx context.Context, userID int64, filter ListFilter) ([]domain.Overhead, int, error) {
	if err := validateDateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByUser(ctx, userID, filter.Category, filter.StartDate, filter.EndDate, filter.Limit, filter.Offset)
}

func (s *overheadService) Summary(ctx context.Context, userID int64, filter SummaryFilter) (*domain.OverheadSummary, error) {
	if err := validateDateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, err
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", apperrors.ValidationDetail{
			Field:   "category",
			Message: "category must be one of Fixed, Variable, Recurring, One-time",
		})
	}
	return s.repo.Aggregate(ctx, userID, filter.Category, filter.StartDate, filter.EndDate)
}

func validateOverhead(
	category domain.OverheadCategory,
	description string,
	amount decimal.Decimal,
	expenseDate time.Time,
	isRecurring bool,
	frequency *domain.RecurringFrequency,
) error {
	var details []apperrors.ValidationDetail

	if !category.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "category",
			Message: "category must be one of Fixed, Variable, Recurring, One-time",
		})
	}
	if len(description) < 2 || len(description) > 500 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "description",
			Message: "description must be between 2 and 500 characters",
		})
	}
	if amount.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be non-negative",
		})
	}
	if expenseDate.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "expenseDate",
			Message: "expenseDate is required",
		})
	}
	if isRecurring && frequency == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "recurringFrequency",
			Message: "recurringFrequency is required when isRecurring is true",
		})
	}
	if frequency != nil && !frequency.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "recurringFrequency",
			Message: "recurringFrequency must be one of Monthly, Quarterly, Yearly",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.NewValidationError("invalid date range", apperrors.ValidationDetail{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}
	return nil
}
