// internal/models/order.go
package models

// Order is a cash-on-delivery order captured by the public product page.
// ProductID is a plain reference, not ownership: the product may be deleted
// independently and the order survives it.
type Order struct {
	BaseModel
	ProductID      uint        `json:"productId" gorm:"not null;index"`
	Pack           int         `json:"pack" gorm:"not null;default:1"`
	Total          float64     `json:"total" gorm:"type:decimal(10,2);not null"`
	Name           string      `json:"name" gorm:"size:255;not null"`
	Phone          string      `json:"phone" gorm:"size:20;not null"`
	Address        string      `json:"address" gorm:"size:512;not null"`
	Governor       string      `json:"governor" gorm:"size:100;not null"`
	City           string      `json:"city" gorm:"size:100;not null"`
	Status         OrderStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	PhoneConfirmed bool        `json:"phoneConfirmed" gorm:"default:false"`
}

// NetTotal is the order total minus the shipping cost, floored at zero.
// Revenue reporting always works on this net figure.
func (o *Order) NetTotal(shippingCost float64) float64 {
	net := o.Total - shippingCost
	if net < 0 {
		return 0
	}
	return net
}
