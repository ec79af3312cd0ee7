// Package audit registra y consulta la bitácora de operaciones.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

var _ ports.AuditLogger = (*Service)(nil)

// Service adapta un AuditRepository (MongoDB o memoria) al puerto AuditLogger.
// Las fallas de escritura se registran en el log y no interrumpen la operación auditada.
type Service struct {
	repo repository.AuditRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewService construye el servicio; log puede ser nil.
func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log.Component("audit"), now: time.Now}
}

// Record persiste la entrada. Usa un contexto propio para no perder la entrada si
// la petición ya fue cancelada.
func (s *Service) Record(ctx context.Context, r ports.AuditRecord) {
	entry := entity.AuditEntry{
		CompanyID: r.CompanyID,
		UserID:    r.UserID,
		Entity:    r.Entity,
		EntityID:  r.EntityID,
		Action:    r.Action,
		ModFlag:   r.ModFlag,
		Details:   r.Details,
		At:        s.now().UTC(),
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.repo.Append(wctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("company_id", r.CompanyID).
			Str("entity", r.Entity).
			Str("entity_id", r.EntityID).
			Str("action", r.Action).
			Msg("no se pudo registrar la auditoría")
	}
}

// List entradas de la empresa, más recientes primero. entityName y entityID son filtros opcionales.
func (s *Service) List(ctx context.Context, companyID, entityName, entityID string, limit int) ([]dto.AuditEntryResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := s.repo.List(ctx, companyID, entityName, entityID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.AuditEntryResponse{
			UserID:   e.UserID,
			Entity:   e.Entity,
			EntityID: e.EntityID,
			Action:   e.Action,
			ModFlag:  e.ModFlag,
			Details:  e.Details,
			At:       e.At,
		})
	}
	return out, nil
}
