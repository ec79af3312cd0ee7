package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de envío.
const (
	ShipmentPending   = "pending"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentCancelled = "cancelled"
)

// Tipos de documento al que se asocia un envío.
const (
	ShipmentRefSale          = "sale"
	ShipmentRefPurchaseOrder = "purchase_order"
)

// shipmentTransitions transiciones permitidas desde cada estado.
var shipmentTransitions = map[string][]string{
	ShipmentPending:   {ShipmentInTransit, ShipmentCancelled},
	ShipmentInTransit: {ShipmentDelivered, ShipmentCancelled},
}

// CanTransition informa si un envío puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range shipmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Shipment seguimiento de transporte de una venta o de una orden de compra.
type Shipment struct {
	ID             string
	CompanyID      string
	ReferenceType  string
	ReferenceID    string
	Carrier        string
	TrackingNumber string
	Origin         string
	Destination    string
	Cost           decimal.Decimal
	Status         string
	Events         []ShipmentEvent
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CreatedBy      string
	ModFlag        int
	DelFlag        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShipmentEvent hito del seguimiento.
type ShipmentEvent struct {
	Status string    `json:"status" bson:"status"`
	Note   string    `json:"note,omitempty" bson:"note,omitempty"`
	At     time.Time `json:"at" bson:"at"`
}
