package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// JSONImporter loads a grocery fixtures file (the storefront's
// ingredients format) into the catalog, assigning every row to one
// vendor. Rows are upserted, so re-running the import is safe.
type JSONImporter struct {
	reader      io.Reader
	productRepo ProductWriter
	vendorID    string
}

func NewJSONImporter(r io.Reader, repo ProductWriter, vendorID string) *JSONImporter {
	return &JSONImporter{
		reader:      r,
		productRepo: repo,
		vendorID:    vendorID,
	}
}

type fixtureFile struct {
	Ingredients []fixtureRow `json:"ingredients"`
}

type fixtureRow struct {
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	PricePerKg          json.Number     `json:"pricePerKg"`
	TotalQuantityWeight json.Number     `json:"totalQuantityWeight"`
	Calories            json.RawMessage `json:"calories"`
	Carbohydrates       json.RawMessage `json:"carbohydrates"`
	Protein             json.RawMessage `json:"protein"`
	Fibers              json.RawMessage `json:"fibers"`
}

// Run parses the fixtures and upserts one product per ingredient.
// Rows without a name are skipped; malformed prices abort the import.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	dec := json.NewDecoder(i.reader)
	dec.UseNumber()

	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}

	imported := 0
	for _, row := range file.Ingredients {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}

		price, err := parseDecimal(row.PricePerKg)
		if err != nil {
			return imported, fmt.Errorf("row %q: pricePerKg: %w", name, err)
		}
		quantity, err := parseDecimal(row.TotalQuantityWeight)
		if err != nil {
			return imported, fmt.Errorf("row %q: totalQuantityWeight: %w", name, err)
		}

		product := domain.Product{
			VendorID:   i.vendorID,
			Name:       name,
			Category:   strings.TrimSpace(row.Category),
			PricePerKg: price,
			QuantityKg: quantity,
			Nutrition:  nutritionFromRow(row),
		}
		if _, err := i.productRepo.Upsert(ctx, product); err != nil {
			return imported, fmt.Errorf("upsert %q: %w", name, err)
		}
		imported++
	}

	return imported, nil
}

func parseDecimal(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

// nutritionFromRow keeps nutrient fields in their raw form: fixtures
// carry them both as bare numbers and as strings with units, and the
// catalog query engine knows how to parse either.
func nutritionFromRow(row fixtureRow) map[string]interface{} {
	nutrition := map[string]interface{}{}
	add := func(key string, raw json.RawMessage) {
		if len(raw) == 0 {
			return
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil || v == nil {
			return
		}
		nutrition[key] = v
	}
	add("calories", row.Calories)
	add("carbohydrates", row.Carbohydrates)
	add("protein", row.Protein)
	add("fibers", row.Fibers)
	if len(nutrition) == 0 {
		return nil
	}
	return nutrition
}
