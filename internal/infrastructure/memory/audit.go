package memory

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria (cuando no hay MongoDB configurado).
type AuditRepo struct{ s *Store }

// Append agrega una entrada.
func (r *AuditRepo) Append(_ context.Context, e entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.audit = append(r.s.d.audit, e)
	return nil
}

// List devuelve las entradas más recientes primero.
func (r *AuditRepo) List(_ context.Context, companyID, entityName, entityID string, limit int) ([]entity.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.AuditEntry
	for i := len(r.s.d.audit) - 1; i >= 0; i-- {
		e := r.s.d.audit[i]
		if e.CompanyID != companyID || (entityName != "" && e.Entity != entityName) || (entityID != "" && e.EntityID != entityID) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
