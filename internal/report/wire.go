package report

import (
	"database/sql"

	"go.uber.org/zap"

	"costbook/internal/costing"
	costingrepo "costbook/internal/costing/repository"
	productrepo "costbook/internal/product/repository"
	reportrepo "costbook/internal/report/repository"
	stockrepo "costbook/internal/stock/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	products := productrepo.NewMySQLProductRepository(db)
	lines := costingrepo.NewMySQLCostLineRepository(db)
	costingService := costing.NewService(products, lines, logger)

	svc := NewService(
		costingService,
		lines,
		reportrepo.NewMySQLReportRepository(db),
		stockrepo.NewMySQLStockRepository(db),
		logger,
	)

	return NewController(svc, logger)
}
