package product

import (
	"database/sql"

	"go.uber.org/zap"

	"costbook/internal/infrastructure/mysql"
	productrepo "costbook/internal/product/repository"
	stockrepo "costbook/internal/stock/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := productrepo.NewMySQLProductRepository(db)
	movements := stockrepo.NewMySQLMovementRepository(db)
	svc := NewService(mysql.NewTransactionManager(db), repo, movements, logger)
	return NewController(svc, logger)
}
