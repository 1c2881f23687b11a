// Package pricing derives the discount, tax, net and total amounts of a product price.
package pricing

import "github.com/shopspring/decimal"

// DefaultTaxPercentage is applied to pricing details created without an explicit tax rate.
const DefaultTaxPercentage = 18.0

var hundred = decimal.NewFromInt(100)

// Breakdown holds the derived amounts for a single price.
type Breakdown struct {
	DiscountPrice float64 `json:"discount_price"`
	NetAmount     float64 `json:"net_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	TotalPrice    float64 `json:"total_price"`
}

// Calculate applies the discount and then the tax on the discounted amount.
//
// Arithmetic is done in decimal so that values such as 90 * 18% come back as 16.2
// instead of a binary approximation. No rounding to currency precision is applied
// and inputs are not validated.
func Calculate(price, discountPercentage, taxPercentage float64) Breakdown {
	p := decimal.NewFromFloat(price)
	discount := p.Mul(decimal.NewFromFloat(discountPercentage).Div(hundred))
	net := p.Sub(discount)
	tax := net.Mul(decimal.NewFromFloat(taxPercentage).Div(hundred))
	total := net.Add(tax)

	return Breakdown{
		DiscountPrice: discount.InexactFloat64(),
		NetAmount:     net.InexactFloat64(),
		TaxAmount:     tax.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}
