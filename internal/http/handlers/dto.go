package handlers

import (
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

type ProductRequest struct {
	Name               string  `json:"name" validate:"required,max=255"`
	Brand              string  `json:"brand" validate:"max=255"`
	Price              float64 `json:"price" validate:"gte=0"`
	Quantity           int     `json:"quantity" validate:"gte=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
}

// toModel builds the upsert input; id 0 means create.
func (r ProductRequest) toModel(id int) *models.Product {
	p := &models.Product{
		ID:       id,
		Name:     r.Name,
		Brand:    r.Brand,
		Price:    r.Price,
		Quantity: r.Quantity,
	}
	d := models.NewPricingDetail(0)
	d.DiscountPercentage = r.DiscountPercentage
	p.SetDetails(d)
	return p
}

type PricingResponse struct {
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountPrice      float64 `json:"discount_price"`
	TaxPercentage      float64 `json:"tax_percentage"`
	TaxAmount          float64 `json:"tax_amount"`
	NetAmount          float64 `json:"net_amount"`
	TotalPrice         float64 `json:"total_price"`
}

type ProductResponse struct {
	Id        int              `json:"id"`
	Name      string           `json:"name"`
	Brand     string           `json:"brand"`
	Price     float64          `json:"price"`
	Quantity  int              `json:"quantity"`
	ImageURL  string           `json:"image_url,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	Pricing   *PricingResponse `json:"pricing,omitempty"`
}

func toProductResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		Id:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Quantity:  p.Quantity,
		ImageURL:  p.ImageURL,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
	if d := p.Details(); d != nil {
		resp.Pricing = &PricingResponse{
			DiscountPercentage: d.DiscountPercentage,
			DiscountPrice:      d.DiscountPrice,
			TaxPercentage:      d.TaxPercentage,
			TaxAmount:          d.TaxAmount,
			NetAmount:          d.NetAmount,
			TotalPrice:         d.TotalPrice,
		}
	}
	return resp
}

func toProductResponses(products []*models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

type ProductsSearchResult struct {
	Data    []ProductResponse `json:"data"`
	Message string            `json:"message,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}

// ProductExportRow is one line of the CSV export.
type ProductExportRow struct {
	ID                 int     `csv:"id" json:"id"`
	Name               string  `csv:"name" json:"name"`
	Brand              string  `csv:"brand" json:"brand"`
	Price              float64 `csv:"price" json:"price"`
	Quantity           int     `csv:"quantity" json:"quantity"`
	DiscountPercentage float64 `csv:"discount_percentage" json:"discount_percentage"`
	DiscountPrice      float64 `csv:"discount_price" json:"discount_price"`
	TaxPercentage      float64 `csv:"tax_percentage" json:"tax_percentage"`
	TaxAmount          float64 `csv:"tax_amount" json:"tax_amount"`
	NetAmount          float64 `csv:"net_amount" json:"net_amount"`
	TotalPrice         float64 `csv:"total_price" json:"total_price"`
	ImageURL           string  `csv:"image_url" json:"image_url"`
	CreatedBy          string  `csv:"created_by" json:"created_by"`
	CreatedAt          string  `csv:"created_at" json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
