package overhead

import (
	"context"
	"time"

	"costbook/internal/domain"
)

type Repository interface {
	Insert(ctx context.Context, o domain.Overhead) (int64, error)
	FindByIDAndUser(ctx context.Context, overheadID, userID int64) (*domain.Overhead, error)
	Update(ctx context.Context, o domain.Overhead) error
	Delete(ctx context.Context, overheadID, userID int64) error
	ListByUser(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time, limit, offset int) ([]domain.Overhead, int, error)
	Aggregate(ctx context.Context, userID int64, category *domain.OverheadCategory, start, end *time.Time) (*domain.OverheadSummary, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, cmd CreateCommand) (*domain.Overhead, error)
	Get(ctx context.Context, userID, overheadID int64) (*domain.Overhead, error)
	Update(ctx context.Context, userID int64, cmd UpdateCommand) (*domain.Overhead, error)
	Delete(ctx context.Context, userID, overheadID int64) error
	List(ctx context.Context, userID int64, filter ListFilter) ([]domain.Overhead, int, error)
	Summary(ctx context.Context, userID int64, filter SummaryFilter) (*domain.OverheadSummary, error)
}
