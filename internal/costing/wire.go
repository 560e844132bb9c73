package costing

import (
	"database/sql"

	"go.uber.org/zap"

	costingrepo "costbook/internal/costing/repository"
	productrepo "costbook/internal/product/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	products := productrepo.NewMySQLProductRepository(db)
	lines := costingrepo.NewMySQLCostLineRepository(db)
	svc := NewService(products, lines, logger)
	return NewController(svc, logger)
}
