package overhead

import (
	"time"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

type CreateCommand struct {
	Category           domain.OverheadCategory
	Subcategory        *string
	Description        string
	Amount             decimal.Decimal
	ExpenseDate        time.Time
	IsRecurring        bool
	RecurringFrequency *domain.RecurringFrequency
}

type UpdateCommand struct {
	OverheadID         int64
	Category           domain.OverheadCategory
	Subcategory        *string
	Description        string
	Amount             decimal.Decimal
	ExpenseDate        time.Time
	IsRecurring        bool
	RecurringFrequency *domain.RecurringFrequency
}

type ListFilter struct {
	Category  *domain.OverheadCategory
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

type SummaryFilter struct {
	Category  *domain.OverheadCategory
	StartDate *time.Time
	EndDate   *time.Time
}

type OverheadRequest struct {
	Category           string          `json:"category"`
	Subcategory        *string         `json:"subcategory"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	ExpenseDate        string          `json:"expenseDate"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency *string         `json:"recurringFrequency"`
}

type OverheadDTO struct {
	ID                 int64           `json:"id"`
	Category           string          `json:"category"`
	Subcategory        *string         `json:"subcategory"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	ExpenseDate        string          `json:"expenseDate"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency *string         `json:"recurringFrequency"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func NewOverheadDTO(o domain.Overhead) OverheadDTO {
	dto := OverheadDTO{
		ID:          o.ID,
		Category:    string(o.Category),
		Subcategory: o.Subcategory,
		Description: o.Description,
		Amount:      o.Amount,
		ExpenseDate: o.ExpenseDate.Format("2006-01-02"),
		IsRecurring: o.IsRecurring,
		CreatedAt:   o.CreatedAt,
	}
	if o.RecurringFrequency != nil {
		freq := string(*o.RecurringFrequency)
		dto.RecurringFrequency = &freq
	}
	return dto
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

type ListOverheadsResponse struct {
	Overheads  []OverheadDTO `json:"overheads"`
	Pagination Pagination    `json:"pagination"`
}

type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Percent  decimal.Decimal `json:"percent"`
}

type MonthlyTotalDTO struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type SummaryResponse struct {
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	ByCategory  []CategoryTotalDTO `json:"byCategory"`
	Monthly     []MonthlyTotalDTO  `json:"monthly"`
}
