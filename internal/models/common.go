// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Enums
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDelivered OrderStatus = "LIVREE"
	OrderStatusReturned  OrderStatus = "RETOUR"
	OrderStatusCancelled OrderStatus = "ANNULEE"
)

// AllOrderStatuses lists the four statuses in display order. Aggregations
// iterate this slice so every status is reported even when it has no orders.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled:
		return true
	}
	return false
}

// Governorates is the fixed list of delivery regions accepted by the order
// intake form.
var Governorates = []string{
	"Tunis",
	"Ariana",
	"Ben Arous",
	"Manouba",
	"Nabeul",
	"Zaghouan",
	"Bizerte",
	"Béja",
	"Jendouba",
	"Le Kef",
	"Siliana",
	"Sousse",
	"Monastir",
	"Mahdia",
	"Sfax",
	"Kairouan",
	"Kasserine",
	"Sidi Bouzid",
	"Gabès",
	"Medenine",
	"Tataouine",
	"Gafsa",
	"Tozeur",
	"Kebili",
}

func IsGovernorate(name string) bool {
	for _, g := range Governorates {
		if g == name {
			return true
		}
	}
	return false
}
