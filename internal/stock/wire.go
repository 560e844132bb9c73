package stock

import (
	"database/sql"

	"go.uber.org/zap"

	"costbook/internal/config"
	"costbook/internal/infrastructure/mysql"
	productrepo "costbook/internal/product/repository"
	"costbook/internal/stock/controller"
	stockrepo "costbook/internal/stock/repository"
	"costbook/internal/stock/service"
	"costbook/internal/stock/usecase"
)

func NewModule(db *sql.DB, cfg config.LedgerConfig, logger *zap.Logger) *controller.StockController {
	products := productrepo.NewMySQLProductRepository(db)
	movements := stockrepo.NewMySQLMovementRepository(db)
	sales := stockrepo.NewMySQLSaleRepository(db)
	stocks := stockrepo.NewMySQLStockRepository(db)

	ledger := service.NewLedgerService(
		mysql.NewTransactionManager(db),
		products, products, movements, sales, stocks,
		logger, cfg.TxTimeout,
	)

	return controller.NewStockController(
		usecase.NewLedgerUsecase(ledger, logger, cfg.MaxRetryAttempts),
		logger,
	)
}
