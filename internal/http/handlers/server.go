package handlers

import (
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

var productService *service.ProductService

func SetProductService(s *service.ProductService) {
	productService = s
}
