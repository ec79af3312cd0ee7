package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// AuditRepository bitácora de operaciones (almacén de documentos).
type AuditRepository interface {
	Append(ctx context.Context, entry entity.AuditEntry) error
	List(ctx context.Context, companyID, entityName, entityID string, limit int) ([]entity.AuditEntry, error)
}
