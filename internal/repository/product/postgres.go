package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
)

const productColumns = `id, vendor_id, name, category, price_per_kg::text, quantity_kg::text, nutrition, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (vendor_id, name, category, price_per_kg, quantity_kg, nutrition)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb))
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q, p.VendorID, p.Name, p.Category, p.PricePerKg, p.QuantityKg, p.Nutrition)
	created, err := scanProduct(row)
	if err != nil {
		r.logger.Printf("product repo: create vendor_id=%s name=%q error=%v", p.VendorID, p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s vendor_id=%s name=%q", created.ID, created.VendorID, created.Name)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	return r.queryProducts(ctx, q)
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE vendor_id = $1
ORDER BY created_at DESC
`
	return r.queryProducts(ctx, q, vendorID)
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = COALESCE($2, name),
    category = COALESCE($3, category),
    price_per_kg = COALESCE($4, price_per_kg),
    quantity_kg = COALESCE($5, quantity_kg),
    nutrition = COALESCE($6, nutrition)
WHERE id = $1
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q, id, in.Name, in.Category, in.PricePerKg, in.QuantityKg, in.Nutrition)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("product repo: updated id=%s vendor_id=%s", p.ID, p.VendorID)
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

// Upsert inserts or refreshes a product keyed by (vendor_id, name).
// Used by the seeder and the fixture importer.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (vendor_id, name, category, price_per_kg, quantity_kg, nutrition)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb))
ON CONFLICT (vendor_id, name) DO UPDATE SET
    category = EXCLUDED.category,
    price_per_kg = EXCLUDED.price_per_kg,
    quantity_kg = EXCLUDED.quantity_kg,
    nutrition = EXCLUDED.nutrition
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q, p.VendorID, p.Name, p.Category, p.PricePerKg, p.QuantityKg, p.Nutrition)
	res, err := scanProduct(row)
	if err != nil {
		r.logger.Printf("product repo: upsert vendor_id=%s name=%q error=%v", p.VendorID, p.Name, err)
		return nil, err
	}
	return res, nil
}

func (r *postgresRepo) queryProducts(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		price    string
		quantity string
	)
	if err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Category, &price, &quantity, &p.Nutrition, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.PricePerKg, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if p.QuantityKg, err = decimal.NewFromString(quantity); err != nil {
		return nil, err
	}
	return &p, nil
}
