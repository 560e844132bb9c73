package overhead

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"costbook/internal/domain"
	apperrors "costbook/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type mockRepository struct {
	InsertFunc          func(ctx context.Context, o domain.Overhead) (int64, error)
	FindByIDAndUserFunc func(ctx context.Context, overheadID, userID int64) (*domain.Overhead, error)
	UpdateFunc          func(ctx context.Context, o domain.Overhead) error
	DeleteFunc          func(ctx context.Context, overheadID, userID int64) error
	ListByUserFunc      func(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time, limit, offset int) ([]domain.Overhead, int, error)
	AggregateFunc       func(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time) (*domain.OverheadSummary, error)
}

func (m *mockRepository) Insert(ctx context.Context, o domain.Overhead) (int64, error) {
	return m.InsertFunc(ctx, o)
}

func (m *mockRepository) FindByIDAndUser(ctx context.Context, overheadID, userID int64) (*domain.Overhead, error) {
	return m.FindByIDAndUserFunc(ctx, overheadID, userID)
}

func (m *mockRepository) Update(ctx context.Context, o domain.Overhead) error {
	return m.UpdateFunc(ctx, o)
}

func (m *mockRepository) Delete(ctx context.Context, overheadID, userID int64) error {
	return m.DeleteFunc(ctx, overheadID, userID)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time, limit, offset int) ([]domain.Overhead, int, error) {
	return m.ListByUserFunc(ctx, userID, category, start, end, limit, offset)
}

func (m *mockRepository) Aggregate(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time) (*domain.OverheadSummary, error) {
	return m.AggregateFunc(ctx, userID, category, start, end)
}

func TestCreate_RecurringRequiresFrequency(t *testing.T) {
	svc := NewService(&mockRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Category:    domain.OverheadRecurring,
		Description: "workshop rent",
		Amount:      dec("1200.00"),
		ExpenseDate: date("2026-08-01"),
		IsRecurring: true,
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "recurringFrequency", ve.Details[0].Field)
}

func TestCreate_NonRecurringDropsFrequency(t *testing.T) {
	var inserted domain.Overhead
	repo := &mockRepository{
		InsertFunc: func(ctx context.Context, o domain.Overhead) (int64, error) {
			inserted = o
			return 5, nil
		},
		FindByIDAndUserFunc: func(ctx context.Context, overheadID, userID int64) (*domain.Overhead, error) {
			return &domain.Overhead{ID: overheadID}, nil
		},
	}

	svc := NewService(repo, zap.NewNop())

	freq := domain.FrequencyMonthly
	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Category:           domain.OverheadFixed,
		Description:        "machine insurance",
		Amount:             dec("350.505"),
		ExpenseDate:        date("2026-08-01"),
		IsRecurring:        false,
		RecurringFrequency: &freq,
	})

	require.NoError(t, err)
	assert.Nil(t, inserted.RecurringFrequency)
	assert.True(t, inserted.Amount.Equal(dec("350.51")))
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&mockRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), 1, CreateCommand{
		Category:    domain.OverheadCategory("Misc"),
		Description: "x",
		Amount:      dec("-5"),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 4)
}

func TestSummary_RejectsInvertedDateRange(t *testing.T) {
	svc := NewService(&mockRepository{
		AggregateFunc: func(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time) (*domain.OverheadSummary, error) {
			t.Fatal("aggregate must not run for an inverted range")
			return nil, nil
		},
	}, zap.NewNop())

	start := date("2026-08-31")
	end := date("2026-08-01")
	_, err := svc.Summary(context.Background(), 1, SummaryFilter{StartDate: &start, EndDate: &end})

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestNewSummaryResponse_PercentShares(t *testing.T) {
	summary := &domain.OverheadSummary{
		TotalAmount: dec("1000.00"),
		ByCategory: []domain.OverheadCategoryTotal{
			{Category: domain.OverheadFixed, Total: dec("750.00"), Count: 3},
			{Category: domain.OverheadVariable, Total: dec("250.00"), Count: 1},
		},
	}

	resp := newSummaryResponse(summary)

	require.Len(t, resp.ByCategory, 2)
	assert.True(t, resp.ByCategory[0].Percent.Equal(dec("75.00")))
	assert.True(t, resp.ByCategory[1].Percent.Equal(dec("25.00")))
}

func TestNewSummaryResponse_ZeroTotalGuardsPercent(t *testing.T) {
	summary := &domain.OverheadSummary{
		TotalAmount: decimal.Zero,
		ByCategory: []domain.OverheadCategoryTotal{
			{Category: domain.OverheadFixed, Total: decimal.Zero, Count: 2},
		},
	}

	resp := newSummaryResponse(summary)

	require.Len(t, resp.ByCategory, 1)
	assert.True(t, resp.ByCategory[0].Percent.IsZero())
}

func TestQueryLimit_ClampsOversizedValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/overheads?limit=5000", nil)
	assert.Equal(t, 20, queryLimit(r, 20))

	r = httptest.NewRequest("GET", "/overheads?limit=50", nil)
	assert.Equal(t, 50, queryLimit(r, 20))
}
