package models

import (
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/pricing"
)

// Product represents a catalog entry. Its pricing detail is reachable only through
// Details and SetDetails so both sides of the link always change together.
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	details *PricingDetail
}

// Details returns the attached pricing detail, or nil.
func (p *Product) Details() *PricingDetail {
	return p.details
}

// SetDetails attaches d to the product and points d back at it. Any previously
// attached detail is detached. A detail held by another product is taken away from
// it first, so it is never shared. Passing nil only detaches.
func (p *Product) SetDetails(d *PricingDetail) {
	if p.details == d {
		if d != nil {
			d.owner = p
		}
		return
	}
	if p.details != nil {
		p.details.Detach()
	}
	if d != nil && d.owner != nil && d.owner != p {
		d.Detach()
	}
	p.details = d
	if d != nil {
		d.owner = p
	}
}

// HasImage reports whether an image URL is stored for the product.
func (p *Product) HasImage() bool {
	return p.ImageURL != ""
}

// PricingDetail is the derived financial breakdown owned by exactly one product.
type PricingDetail struct {
	ID                 int     `json:"id"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountPrice      float64 `json:"discount_price"`
	TaxPercentage      float64 `json:"tax_percentage"`
	TaxAmount          float64 `json:"tax_amount"`
	NetAmount          float64 `json:"net_amount"`
	TotalPrice         float64 `json:"total_price"`

	owner *Product
}

// NewPricingDetail returns an unattached detail with no discount and the given tax rate.
func NewPricingDetail(taxPercentage float64) *PricingDetail {
	return &PricingDetail{TaxPercentage: taxPercentage}
}

// ProductID returns the identifier of the owning product, or 0 when detached.
func (d *PricingDetail) ProductID() int {
	if d.owner == nil {
		return 0
	}
	return d.owner.ID
}

// Attached reports whether the detail currently belongs to a product.
func (d *PricingDetail) Attached() bool {
	return d.owner != nil
}

// Detach drops the product link on both sides and zeroes every derived amount.
func (d *PricingDetail) Detach() {
	if d.owner != nil && d.owner.details == d {
		d.owner.details = nil
	}
	d.owner = nil
	d.resetAmounts()
}

// Recalculate refreshes the derived amounts from owner's price. A detail that is not
// the one attached to owner ends up with all derived amounts at zero.
func (d *PricingDetail) Recalculate(owner *Product) {
	if owner == nil || d.owner != owner || owner.details != d {
		d.resetAmounts()
		return
	}
	b := pricing.Calculate(owner.Price, d.DiscountPercentage, d.TaxPercentage)
	d.DiscountPrice = b.DiscountPrice
	d.NetAmount = b.NetAmount
	d.TaxAmount = b.TaxAmount
	d.TotalPrice = b.TotalPrice
}

// RestoreDetails attaches a persisted detail with its stored amounts as they are.
// Storage adapters use it when loading rows; nothing is recomputed.
func (p *Product) RestoreDetails(d PricingDetail) {
	if p.details != nil {
		p.details.Detach()
	}
	d.owner = p
	p.details = &d
}

func (d *PricingDetail) resetAmounts() {
	d.DiscountPrice = 0
	d.NetAmount = 0
	d.TaxAmount = 0
	d.TotalPrice = 0
}

// Clone returns a deep copy of p, including its pricing detail.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.details = nil
	if p.details != nil {
		d := *p.details
		d.owner = &c
		c.details = &d
	}
	return &c
}
