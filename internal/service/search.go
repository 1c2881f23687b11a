package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const MsgEmptyQuery = "Please enter a Product ID or Name to search."

// SearchResult carries the matched products and a message for the user, empty when something matched.
type SearchResult struct {
	Products []*models.Product
	Message  string
}

// Search looks a query up as a product ID when it parses as an integer and as a name
// fragment otherwise. An integer query never falls back to a name search. A blank
// query lists everything and asks for input.
func (s *ProductService) Search(ctx context.Context, query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		all, err := s.GetAll(ctx)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Products: all, Message: MsgEmptyQuery}, nil
	}

	if id, err := strconv.ParseInt(q, 10, 64); err == nil {
		var p *models.Product
		if id > 0 && id <= int64(maxInt) {
			if p, err = s.GetByID(ctx, int(id)); err != nil {
				return SearchResult{}, err
			}
		}
		if p == nil {
			return SearchResult{
				Products: []*models.Product{},
				Message:  fmt.Sprintf("No product found with ID: %d", id),
			}, nil
		}
		return SearchResult{Products: []*models.Product{p}}, nil
	}

	found, err := s.FindByName(ctx, q)
	if err != nil {
		return SearchResult{}, err
	}
	if len(found) == 0 {
		return SearchResult{
			Products: []*models.Product{},
			Message:  fmt.Sprintf("No products found matching name: '%s'", q),
		}, nil
	}
	return SearchResult{Products: found}, nil
}

const maxInt = int(^uint(0) >> 1)
