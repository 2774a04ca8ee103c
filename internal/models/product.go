// internal/models/product.go
package models

// Product is a storefront product with up to three pack offers (1x, 2x, 3x),
// each carrying its own original/sale price pair. ImageURL caches the URL of
// the current primary image so list views do not need to join images.
type Product struct {
	BaseModel
	Name                string   `json:"name" gorm:"size:255;not null"`
	Description         string   `json:"description" gorm:"type:text"`
	Price               float64  `json:"price" gorm:"type:decimal(10,2);not null"`
	SalePrice           *float64 `json:"salePrice" gorm:"type:decimal(10,2)"`
	ImageURL            string   `json:"imageUrl" gorm:"size:512"`
	Offer2OriginalPrice *float64 `json:"offer2OriginalPrice" gorm:"type:decimal(10,2)"`
	Offer2SalePrice     *float64 `json:"offer2SalePrice" gorm:"type:decimal(10,2)"`
	Offer3OriginalPrice *float64 `json:"offer3OriginalPrice" gorm:"type:decimal(10,2)"`
	Offer3SalePrice     *float64 `json:"offer3SalePrice" gorm:"type:decimal(10,2)"`

	// Relationships
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Features []ProductFeature `json:"features,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductImage is one gallery image. At most one image per product should
// carry IsPrimary; the editor enforces that, not the store.
type ProductImage struct {
	BaseModel
	ProductID uint   `json:"productId" gorm:"not null;index"`
	URL       string `json:"url" gorm:"size:512;not null"`
	IsPrimary bool   `json:"isPrimary" gorm:"default:false"`
}

// ProductFeature is an admin-ordered product highlight (image + title +
// description). Order defines display sequence and need not be contiguous.
type ProductFeature struct {
	BaseModel
	ProductID   uint   `json:"productId" gorm:"not null;index"`
	ImageURL    string `json:"imageUrl" gorm:"size:512;not null"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	Order       int    `json:"order" gorm:"column:display_order;not null;default:0"`
}

// PackOriginalPrice returns the pre-discount price for a pack size,
// falling back to price*pack when no offer is configured.
func (p *Product) PackOriginalPrice(pack int) float64 {
	switch pack {
	case 2:
		if p.Offer2OriginalPrice != nil {
			return *p.Offer2OriginalPrice
		}
		return p.Price * 2
	case 3:
		if p.Offer3OriginalPrice != nil {
			return *p.Offer3OriginalPrice
		}
		return p.Price * 3
	default:
		return p.Price
	}
}

// PackSalePrice returns the effective selling price for a pack size.
// Fallback chain per pack: sale price, then original offer price, then
// base price times pack size.
func (p *Product) PackSalePrice(pack int) float64 {
	switch pack {
	case 2:
		if p.Offer2SalePrice != nil {
			return *p.Offer2SalePrice
		}
		return p.PackOriginalPrice(2)
	case 3:
		if p.Offer3SalePrice != nil {
			return *p.Offer3SalePrice
		}
		return p.PackOriginalPrice(3)
	default:
		if p.SalePrice != nil {
			return *p.SalePrice
		}
		return p.Price
	}
}

// PrimaryImage returns the image flagged primary, or the first image when
// none is flagged, or nil for an imageless product.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}
