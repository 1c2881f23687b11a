package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

func toExportRow(p *models.Product) ProductExportRow {
	row := ProductExportRow{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Quantity:  p.Quantity,
		ImageURL:  p.ImageURL,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d := p.Details(); d != nil {
		row.DiscountPercentage = d.DiscountPercentage
		row.DiscountPrice = d.DiscountPrice
		row.TaxPercentage = d.TaxPercentage
		row.TaxAmount = d.TaxAmount
		row.NetAmount = d.NetAmount
		row.TotalPrice = d.TotalPrice
	}
	return row
}

// ExportProductsHandler godoc
// @Summary Export the catalog
// @Description Every product with its pricing breakdown, ordered by ID.
// @Tags import
// @Produce text/csv,json
// @Param format query string false "csv (default) or json"
// @Success 200 {array} ProductExportRow
// @Failure 400 {string} string "Unsupported format"
// @Failure 500 {string} string "Internal error"
// @Router /products/export [get]
func ExportProductsHandler(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}

	products, err := productService.GetAll(r.Context())
	if err != nil {
		internalError(w, r, "could not fetch products", err)
		return
	}

	rows := make([]*ProductExportRow, len(products))
	for i, p := range products {
		row := toExportRow(p)
		rows[i] = &row
	}

	if format == "json" {
		respond(w, r, http.StatusOK, rows)
		return
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		internalError(w, r, "could not encode products", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
