package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// csvRow keeps raw strings so one malformed number fails its row, not the whole file.
type csvRow struct {
	Name               string `csv:"name"`
	Brand              string `csv:"brand"`
	Price              string `csv:"price"`
	Quantity           string `csv:"quantity"`
	DiscountPercentage string `csv:"discount_percentage"`
}

func parseCSV(r io.Reader) ([]*csvRow, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("invalid CSV: %v", err)
	}
	return rows, nil
}

func (c csvRow) toRequest() (ProductRequest, []ProductValidationError) {
	var errs []ProductValidationError
	req := ProductRequest{Name: c.Name, Brand: c.Brand}

	if s := strings.TrimSpace(c.Price); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, ProductValidationError{Field: "Price", Description: "invalid price"})
		}
		req.Price = v
	}
	if s := strings.TrimSpace(c.Quantity); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, ProductValidationError{Field: "Quantity", Description: "invalid quantity"})
		}
		req.Quantity = v
	}
	if s := strings.TrimSpace(c.DiscountPercentage); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, ProductValidationError{Field: "DiscountPercentage", Description: "invalid discount percentage"})
		}
		req.DiscountPercentage = v
	}

	return req, append(errs, validateProduct(&req)...)
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name,brand,price,quantity,discount_percentage. Every valid row creates a product; invalid rows are reported and skipped.
// @Tags import
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	errorsList := []ProductValidationError{}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		req, rowErrs := rec.toRequest()
		if len(rowErrs) > 0 {
			for _, e := range rowErrs {
				errorsList = append(errorsList, ProductValidationError{
					Field:       e.Field,
					Description: fmt.Sprintf("row %d: %s", rowNum, e.Description),
				})
			}
			continue
		}

		if _, err := productService.Save(r.Context(), req.toModel(0), nil); err != nil {
			zap.L().Error("could not import product",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Int("row", rowNum),
				zap.String("name", req.Name),
				zap.Error(err),
			)
			errorsList = append(errorsList, ProductValidationError{Description: fmt.Sprintf("row %d: failed to create '%s'", rowNum, req.Name)})
			continue
		}
		imported++
	}

	respond(w, r, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
