package overhead

import (
	"database/sql"

	"go.uber.org/zap"

	overheadrepo "costbook/internal/overhead/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := overheadrepo.NewMySQLOverheadRepository(db)
	svc := NewService(repo, logger)
	return NewController(svc, logger)
}
