// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestPackOriginalPriceFallsBackToBasePrice(t *testing.T) {
	product := Product{Price: 100}

	assert.Equal(t, 100.0, product.PackOriginalPrice(1))
	assert.Equal(t, 200.0, product.PackOriginalPrice(2))
	assert.Equal(t, 300.0, product.PackOriginalPrice(3))
}

func TestPackOriginalPricePrefersConfiguredOffer(t *testing.T) {
	product := Product{
		Price:               100,
		Offer2OriginalPrice: floatPtr(190),
		Offer3OriginalPrice: floatPtr(270),
	}

	assert.Equal(t, 190.0, product.PackOriginalPrice(2))
	assert.Equal(t, 270.0, product.PackOriginalPrice(3))
}

func TestPackSalePriceFallbackChain(t *testing.T) {
	// Full configuration: sale price wins.
	full := Product{
		Price:               100,
		SalePrice:           floatPtr(80),
		Offer2OriginalPrice: floatPtr(190),
		Offer2SalePrice:     floatPtr(150),
		Offer3OriginalPrice: floatPtr(270),
		Offer3SalePrice:     floatPtr(210),
	}
	assert.Equal(t, 80.0, full.PackSalePrice(1))
	assert.Equal(t, 150.0, full.PackSalePrice(2))
	assert.Equal(t, 210.0, full.PackSalePrice(3))

	// No sale price: original offer price.
	originalOnly := Product{
		Price:               100,
		Offer2OriginalPrice: floatPtr(190),
	}
	assert.Equal(t, 100.0, originalOnly.PackSalePrice(1))
	assert.Equal(t, 190.0, originalOnly.PackSalePrice(2))

	// Nothing configured: base price times pack size.
	bare := Product{Price: 100}
	assert.Equal(t, 100.0, bare.PackSalePrice(1))
	assert.Equal(t, 200.0, bare.PackSalePrice(2))
	assert.Equal(t, 300.0, bare.PackSalePrice(3))
}

func TestPrimaryImage(t *testing.T) {
	product := Product{
		Images: []ProductImage{
			{URL: "a"},
			{URL: "b", IsPrimary: true},
		},
	}
	primary := product.PrimaryImage()
	assert.NotNil(t, primary)
	assert.Equal(t, "b", primary.URL)

	// No flagged image: first one acts as cover.
	unflagged := Product{Images: []ProductImage{{URL: "a"}, {URL: "b"}}}
	primary = unflagged.PrimaryImage()
	assert.NotNil(t, primary)
	assert.Equal(t, "a", primary.URL)

	empty := Product{}
	assert.Nil(t, empty.PrimaryImage())
}
