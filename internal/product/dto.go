package product

import (
	"time"

	"github.com/shopspring/decimal"

	"costbook/internal/domain"
)

type CreateProductRequest struct {
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Unit                string           `json:"unit"`
	ScrapValue          decimal.Decimal  `json:"scrapValue"`
	OpeningStock        decimal.Decimal  `json:"openingStock"`
	SellingPrice        *decimal.Decimal `json:"sellingPrice"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent"`
}

type UpdateProductRequest struct {
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Unit                string           `json:"unit"`
	ScrapValue          decimal.Decimal  `json:"scrapValue"`
	OpeningStock        decimal.Decimal  `json:"openingStock"`
	SellingPrice        *decimal.Decimal `json:"sellingPrice"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent"`
}

type ProductDTO struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Unit                string           `json:"unit"`
	ScrapValue          decimal.Decimal  `json:"scrapValue"`
	OpeningStock        decimal.Decimal  `json:"openingStock"`
	CurrentStock        decimal.Decimal  `json:"currentStock"`
	SellingPrice        *decimal.Decimal `json:"sellingPrice"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent"`
	IsActive            bool             `json:"isActive"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type ListProductsResponse struct {
	Products   []ProductDTO `json:"products"`
	Pagination Pagination   `json:"pagination"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Unit:                p.Unit,
		ScrapValue:          p.ScrapValue,
		OpeningStock:        p.OpeningStock,
		CurrentStock:        p.CurrentStock,
		SellingPrice:        p.SellingPrice,
		TargetMarginPercent: p.TargetMarginPercent,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func NewPagination(page, limit, totalCount int) Pagination {
	totalPages := (totalCount + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
