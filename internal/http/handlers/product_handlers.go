package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/imagestore"
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

const maxUploadBytes = 10 << 20

var (
	errInvalidInput  = errors.New("invalid input")
	errImageTooLarge = errors.New("image too large")
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. Send multipart/form-data to attach an image in the "file" field.
// @Tags products
// @Accept json,mpfd
// @Produce json
// @Param product body ProductRequest false "Product to add (JSON)"
// @Param file formData file false "Product image"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 413 {string} string "Image too large"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal error"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	req, upload, validationErrors, err := parseProductRequest(w, r)
	if err != nil {
		rejectRequest(w, err)
		return
	}
	if len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := productService.Save(r.Context(), req.toModel(0), upload)
	if err != nil {
		internalError(w, r, "could not create product", err)
		return
	}

	respond(w, r, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productService.GetAll(r.Context())
	if err != nil {
		internalError(w, r, "could not fetch products", err)
		return
	}
	respond(w, r, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := productService.GetByID(r.Context(), id)
	if err != nil {
		internalError(w, r, "could not fetch product", err)
		return
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces name, brand, price, quantity and discount. A non-empty "file" replaces the image.
// @Tags products
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest false "Updated product (JSON)"
// @Param file formData file false "Product image"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 404 {string} string "Not found"
// @Failure 413 {string} string "Image too large"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, upload, validationErrors, err := parseProductRequest(w, r)
	if err != nil {
		rejectRequest(w, err)
		return
	}
	if len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, validationErrors)
		return
	}

	updated, err := productService.Save(r.Context(), req.toModel(id), upload)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "could not update product", err)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Removes the product, its pricing details and its stored image.
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := productService.DeleteByID(r.Context(), id)
	if err != nil {
		internalError(w, r, "could not delete product", err)
		return
	}
	if !deleted {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchProductsHandler godoc
// @Summary Search products by ID or name
// @Description A numeric query is looked up as an ID only. Any other query matches names case-insensitively. A blank query lists everything.
// @Tags products
// @Produce json
// @Param query query string false "Product ID or part of the name"
// @Success 200 {object} ProductsSearchResult
// @Failure 500 {string} string "Internal error"
// @Router /products/search [get]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := productService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		internalError(w, r, "could not search products", err)
		return
	}
	respond(w, r, http.StatusOK, ProductsSearchResult{
		Data:    toProductResponses(res.Products),
		Message: res.Message,
	})
}

// parseProductRequest reads a product from a JSON body or a multipart form. The returned
// error is set only for bodies that cannot be read at all.
func parseProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, *imagestore.Upload, []ProductValidationError, error) {
	var req ProductRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" && mediaType != "application/x-www-form-urlencoded" {
		if err := readJSON(w, r, &req); err != nil {
			return req, nil, nil, err
		}
		return req, nil, validateProduct(&req), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return req, nil, nil, errImageTooLarge
			}
			return req, nil, nil, fmt.Errorf("%w: %v", errInvalidInput, err)
		}
	} else if err := r.ParseForm(); err != nil {
		return req, nil, nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	var errs []ProductValidationError
	req.Name = r.FormValue("name")
	req.Brand = r.FormValue("brand")
	req.Price = formFloat(r, "price", "Price", &errs)
	req.Quantity = formInt(r, "quantity", "Quantity", &errs)
	req.DiscountPercentage = formFloat(r, "discount_percentage", "DiscountPercentage", &errs)

	upload, err := formUpload(r)
	if err != nil {
		return req, nil, nil, err
	}

	errs = append(errs, validateProduct(&req)...)
	return req, upload, errs, nil
}

// rejectRequest answers a body that could not be read.
func rejectRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, errImageTooLarge) {
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid input", http.StatusBadRequest)
}

func formFloat(r *http.Request, key, field string, errs *[]ProductValidationError) float64 {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*errs = append(*errs, ProductValidationError{Field: field, Description: field + " must be a number"})
		return 0
	}
	return v
}

func formInt(r *http.Request, key, field string, errs *[]ProductValidationError) int {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*errs = append(*errs, ProductValidationError{Field: field, Description: field + " must be a whole number"})
		return 0
	}
	return v
}

// formUpload returns nil when the form carries no "file" part.
func formUpload(r *http.Request) (*imagestore.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return nil, errImageTooLarge
	}
	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	if len(content) > maxUploadBytes {
		return nil, errImageTooLarge
	}
	return &imagestore.Upload{Filename: header.Filename, Content: content}, nil
}
