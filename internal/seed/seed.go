package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productSeed struct {
	Name       string
	Category   string
	PricePerKg decimal.Decimal
	QuantityKg decimal.Decimal
	Nutrition  map[string]interface{}
}

// Apply inserts demo vendors and produce for manual testing. It is
// idempotent: vendors are pinned ids and products upsert on
// (vendor_id, name).
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	greenVendor := vendorID("demo-green-farms")
	orchardVendor := vendorID("demo-orchard-lane")

	byVendor := map[string][]productSeed{
		greenVendor: {
			{
				Name:       "Apples",
				Category:   "Fruit",
				PricePerKg: decimal.NewFromFloat(2.5),
				QuantityKg: decimal.NewFromInt(120),
				Nutrition:  map[string]interface{}{"calories": 52, "carbohydrates": 14, "protein": 0.3, "fibers": 2.4},
			},
			{
				Name:       "Spinach",
				Category:   "Vegetable",
				PricePerKg: decimal.NewFromFloat(3.1),
				QuantityKg: decimal.NewFromInt(40),
				Nutrition:  map[string]interface{}{"calories": 23, "carbohydrates": 3.6, "protein": 2.9, "fibers": 2.2},
			},
		},
		orchardVendor: {
			{
				Name:       "Bananas",
				Category:   "Fruit",
				PricePerKg: decimal.NewFromFloat(1.8),
				QuantityKg: decimal.NewFromInt(200),
				Nutrition:  map[string]interface{}{"calories": 89, "carbohydrates": 23, "protein": 1.1, "fibers": 2.6},
			},
			{
				Name:       "Pineapple",
				Category:   "Fruit",
				PricePerKg: decimal.NewFromFloat(4.2),
				QuantityKg: decimal.NewFromInt(60),
				Nutrition:  map[string]interface{}{"calories": 50, "carbohydrates": 13, "protein": 0.5, "fibers": 1.4},
			},
		},
	}

	for vendor, products := range byVendor {
		for _, p := range products {
			if err := upsertProduct(ctx, pool, vendor, p); err != nil {
				return fmt.Errorf("upsert product %s: %w", p.Name, err)
			}
		}
	}

	return nil
}

// vendorID derives a stable UUID from a seed label so repeated runs
// reuse the same vendors.
func vendorID(label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(label)).String()
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, vendorID string, p productSeed) error {
	const q = `
INSERT INTO products (vendor_id, name, category, price_per_kg, quantity_kg, nutrition)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb))
ON CONFLICT (vendor_id, name) DO UPDATE
SET category = EXCLUDED.category,
    price_per_kg = EXCLUDED.price_per_kg,
    quantity_kg = EXCLUDED.quantity_kg,
    nutrition = EXCLUDED.nutrition
`
	_, err := pool.Exec(ctx, q, vendorID, p.Name, p.Category, p.PricePerKg, p.QuantityKg, p.Nutrition)
	return err
}
