package entity

import "time"

// Acciones registradas en la bitácora.
const (
	AuditCreate  = "create"
	AuditUpdate  = "update"
	AuditDelete  = "delete" // borrado lógico (del_flag)
	AuditVoid    = "void"
	AuditReceive = "receive"
	AuditStatus  = "status"
)

// AuditEntry registro de auditoría de una operación sobre una entidad.
type AuditEntry struct {
	CompanyID string            `bson:"company_id" json:"company_id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	Entity    string            `bson:"entity" json:"entity"`
	EntityID  string            `bson:"entity_id" json:"entity_id"`
	Action    string            `bson:"action" json:"action"`
	ModFlag   int               `bson:"mod_flag" json:"mod_flag"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	At        time.Time         `bson:"at" json:"at"`
}
