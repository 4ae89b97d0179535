package httpserver

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"freshfleet/internal/domain"
)

// catalogQuery is the in-memory filter/sort applied to a product
// listing: substring search on name plus an optional single-field
// nutrient sort.
type catalogQuery struct {
	Search     string
	SortBy     string
	Descending bool
}

var nutrientSortFields = map[string]bool{
	"calories":      true,
	"carbohydrates": true,
	"protein":       true,
	"fibers":        true,
}

func parseCatalogQuery(c *gin.Context) (catalogQuery, error) {
	q := catalogQuery{
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
	}
	if q.SortBy != "" && !nutrientSortFields[q.SortBy] {
		return catalogQuery{}, fmt.Errorf("%w: unknown sortBy field %q", domain.ErrValidation, q.SortBy)
	}
	switch order := c.DefaultQuery("order", "asc"); order {
	case "asc":
	case "desc":
		q.Descending = true
	default:
		return catalogQuery{}, fmt.Errorf("%w: order must be asc or desc", domain.ErrValidation)
	}
	return q, nil
}

// filterByName keeps products whose name contains the term,
// case-insensitively. An empty term matches everything.
func filterByName(products []domain.Product, term string) []domain.Product {
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// sortByNutrient orders products by the numeric value of one nutrition
// field. The sort is stable; an empty field leaves the input order
// untouched. Products whose value is missing or unparsable sort after
// all parsable ones regardless of direction.
func sortByNutrient(products []domain.Product, field string, descending bool) {
	if field == "" {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		vi, oki := nutrientValue(products[i], field)
		vj, okj := nutrientValue(products[j], field)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
}

// nutrientValue pulls a numeric value out of the free-form nutrition
// map. Fixture data stores numbers both bare and with a unit suffix
// ("52 kcal"), so strings are parsed from their leading token.
func nutrientValue(p domain.Product, field string) (float64, bool) {
	raw, ok := p.Nutrition[field]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		token := strings.TrimSpace(v)
		if idx := strings.IndexByte(token, ' '); idx >= 0 {
			token = token[:idx]
		}
		f, err := strconv.ParseFloat(token, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
