package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OverheadCategory string

const (
	OverheadFixed     OverheadCategory = "Fixed"
	OverheadVariable  OverheadCategory = "Variable"
	OverheadRecurring OverheadCategory = "Recurring"
	OverheadOneTime   OverheadCategory = "One-time"
)

func (c OverheadCategory) Valid() bool {
	switch c {
	case OverheadFixed, OverheadVariable, OverheadRecurring, OverheadOneTime:
		return true
	}
	return false
}

type RecurringFrequency string

const (
	FrequencyMonthly   RecurringFrequency = "Monthly"
	FrequencyQuarterly RecurringFrequency = "Quarterly"
	FrequencyYearly    RecurringFrequency = "Yearly"
)

func (f RecurringFrequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// OverheadSummary is the aggregate view over a user's overheads in a date
// window.
type OverheadSummary struct {
	TotalAmount decimal.Decimal
	ByCategory  []OverheadCategoryTotal
	Monthly     []OverheadMonthlyTotal
}

type OverheadCategoryTotal struct {
	Category OverheadCategory
	Total    decimal.Decimal
	Count    int
}

// OverheadMonthlyTotal buckets spend by calendar month, formatted YYYY-MM.
type OverheadMonthlyTotal struct {
	Month string
	Total decimal.Decimal
}

// Overhead is a business expense owned by a user, not tied to any product.
type Overhead struct {
	ID                 int64
	UserID             int64
	Category           OverheadCategory
	Subcategory        *string
	Description        string
	Amount             decimal.Decimal
	ExpenseDate        time.Time
	IsRecurring        bool
	RecurringFrequency *RecurringFrequency
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
