package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	if _, err := r.pool.Exec(ctx, `
INSERT INTO carts (customer_id) VALUES ($1)
ON CONFLICT (customer_id) DO NOTHING
`, customerID); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, customerID)
}

// AddLineItem appends a line snapshotting the product's current price
// and vendor, or merges into the existing line for the same product by
// incrementing its quantity. The merge never refreshes the snapshot.
// The cart row is locked for the duration of the transaction so that
// concurrent adds from the same customer serialize instead of racing.
func (r *postgresRepo) AddLineItem(ctx context.Context, customerID string, product domain.Product, quantity, expectedVersion int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := lockCart(ctx, tx, customerID, expectedVersion)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, vendor_id, quantity, price_per_kg)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, cartID, product.ID, product.VendorID, quantity, product.PricePerKg); err != nil {
		return nil, err
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, customerID)
}

func (r *postgresRepo) UpdateLineItemQuantity(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := lockCart(ctx, tx, customerID, expectedVersion)
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND product_id = $3
`, quantity, cartID, productID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, customerID)
}

// RemoveLineItem deletes the matching line. Removing a line that is
// not there is a no-op, not an error.
func (r *postgresRepo) RemoveLineItem(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := lockCart(ctx, tx, customerID, 0)
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() > 0 {
		if err := bumpVersion(ctx, tx, cartID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, customerID)
}

// RepriceLineItem overwrites the line's price snapshot with the
// product's current price. This is the only path that touches a
// snapshot after add-time.
func (r *postgresRepo) RepriceLineItem(ctx context.Context, customerID string, product domain.Product) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := lockCart(ctx, tx, customerID, 0)
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET price_per_kg = $1
WHERE cart_id = $2 AND product_id = $3
`, product.PricePerKg, cartID, product.ID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := bumpVersion(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, customerID)
}

// lockCart lazily creates the customer's cart, takes a row lock on it
// and verifies the expected version when one was supplied.
func lockCart(ctx context.Context, tx pgx.Tx, customerID string, expectedVersion int) (string, error) {
	if _, err := tx.Exec(ctx, `
INSERT INTO carts (customer_id) VALUES ($1)
ON CONFLICT (customer_id) DO NOTHING
`, customerID); err != nil {
		return "", err
	}

	var (
		cartID  string
		version int
	)
	err := tx.QueryRow(ctx, `
SELECT id, version
FROM carts
WHERE customer_id = $1
FOR UPDATE
`, customerID).Scan(&cartID, &version)
	if err != nil {
		return "", err
	}
	if expectedVersion > 0 && expectedVersion != version {
		return "", domain.ErrConflict
	}
	return cartID, nil
}

func bumpVersion(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET version = version + 1
WHERE id = $1
`, cartID)
	return err
}

func (r *postgresRepo) fetchCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, `
SELECT id, customer_id, version, created_at
FROM carts
WHERE customer_id = $1
`, customerID).Scan(&cart.ID, &cart.CustomerID, &cart.Version, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, cart_id, product_id, vendor_id, quantity, price_per_kg::text, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line  domain.LineItem
			price string
		)
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.VendorID, &line.Quantity, &price, &line.CreatedAt); err != nil {
			return nil, err
		}
		if line.PricePerKg, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}

	return &cart, nil
}
