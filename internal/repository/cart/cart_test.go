package cart

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
	"freshfleet/internal/migrate"
	productrepo "freshfleet/internal/repository/product"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func setup(ctx context.Context, t *testing.T) (*pgxpool.Pool, Repository, productrepo.Repository) {
	t.Helper()
	pool := testPool(ctx, t)
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_lines, carts, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool, NewPostgres(pool), productrepo.NewPostgres(pool, nil)
}

func createProduct(ctx context.Context, t *testing.T, products productrepo.Repository, name, price string) *domain.Product {
	t.Helper()
	p, err := products.Create(ctx, domain.Product{
		VendorID:   "vendor-1",
		Name:       name,
		PricePerKg: decimal.RequireFromString(price),
		QuantityKg: decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func TestPostgres_LazyCartCreation(t *testing.T) {
	ctx := context.Background()
	pool, repo, _ := setup(ctx, t)
	defer pool.Close()

	cart, err := repo.GetByCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("GetByCustomer: %v", err)
	}
	if cart.ID == "" || cart.CustomerID != "cust-1" || cart.Version != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("new cart must be empty: %+v", cart.Items)
	}

	again, err := repo.GetByCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("GetByCustomer again: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("second access must return the same cart: %s vs %s", again.ID, cart.ID)
	}
}

func TestPostgres_AddLineItemMergesQuantity(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")

	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 3, 0); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := repo.AddLineItem(ctx, "cust-1", *apples, 2, 0)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	line := cart.Items[0]
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}
	if !line.PricePerKg.Equal(decimal.RequireFromString("2.5")) || line.VendorID != "vendor-1" {
		t.Fatalf("snapshot wrong: %+v", line)
	}
}

func TestPostgres_SnapshotSurvivesPriceChangeAndDeletion(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")
	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 3, 0); err != nil {
		t.Fatalf("add: %v", err)
	}

	newPrice := decimal.RequireFromString("3.0")
	if _, err := products.Update(ctx, apples.ID, productrepo.UpdateInput{PricePerKg: &newPrice}); err != nil {
		t.Fatalf("update price: %v", err)
	}

	cart, err := repo.GetByCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !cart.Items[0].PricePerKg.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("price snapshot must not follow catalog updates: %s", cart.Items[0].PricePerKg)
	}

	// Merging after the price change still keeps the original snapshot.
	live, err := products.GetByID(ctx, apples.ID)
	if err != nil {
		t.Fatalf("get live product: %v", err)
	}
	cart, err = repo.AddLineItem(ctx, "cust-1", *live, 2, 0)
	if err != nil {
		t.Fatalf("merge add: %v", err)
	}
	if cart.Items[0].Quantity != 5 || !cart.Items[0].PricePerKg.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("merge must keep the first snapshot: %+v", cart.Items[0])
	}

	if err := products.Delete(ctx, apples.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	cart, err = repo.GetByCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("get cart after delete: %v", err)
	}
	if len(cart.Items) != 1 || !cart.Items[0].PricePerKg.Equal(decimal.RequireFromString("2.5")) || cart.Items[0].VendorID != "vendor-1" {
		t.Fatalf("line must survive catalog deletion intact: %+v", cart.Items)
	}
}

func TestPostgres_ConcurrentAddsSerialize(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 1, 0); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add: %v", err)
	}

	cart, err := repo.GetByCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("concurrent adds must not create duplicate lines: %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != workers {
		t.Fatalf("lost increment: got %d, want %d", cart.Items[0].Quantity, workers)
	}
}

func TestPostgres_VersionConflict(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")

	cart, err := repo.AddLineItem(ctx, "cust-1", *apples, 1, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 1, cart.Version+5); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	// The matching version goes through.
	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 1, cart.Version); err != nil {
		t.Fatalf("matching version must succeed: %v", err)
	}
}

func TestPostgres_UpdateAndRemoveLineItem(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")
	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 3, 0); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := repo.UpdateLineItemQuantity(ctx, "cust-1", apples.ID, 7, 0)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if cart.Items[0].Quantity != 7 {
		t.Fatalf("quantity not updated: %d", cart.Items[0].Quantity)
	}

	if _, err := repo.UpdateLineItemQuantity(ctx, "cust-1", "no-such-product", 2, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown line, got %v", err)
	}

	cart, err = repo.RemoveLineItem(ctx, "cust-1", apples.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("line not removed: %+v", cart.Items)
	}

	// Removing again is a no-op, not an error.
	if _, err := repo.RemoveLineItem(ctx, "cust-1", apples.ID); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
}

func TestPostgres_RepriceLineItem(t *testing.T) {
	ctx := context.Background()
	pool, repo, products := setup(ctx, t)
	defer pool.Close()

	apples := createProduct(ctx, t, products, "Apples", "2.5")
	if _, err := repo.AddLineItem(ctx, "cust-1", *apples, 3, 0); err != nil {
		t.Fatalf("add: %v", err)
	}

	newPrice := decimal.RequireFromString("3.0")
	updated, err := products.Update(ctx, apples.ID, productrepo.UpdateInput{PricePerKg: &newPrice})
	if err != nil {
		t.Fatalf("update price: %v", err)
	}

	cart, err := repo.RepriceLineItem(ctx, "cust-1", *updated)
	if err != nil {
		t.Fatalf("reprice: %v", err)
	}
	if !cart.Items[0].PricePerKg.Equal(newPrice) {
		t.Fatalf("explicit reprice must refresh the snapshot: %s", cart.Items[0].PricePerKg)
	}

	if _, err := repo.RepriceLineItem(ctx, "cust-1", domain.Product{ID: "no-such-product", PricePerKg: newPrice}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown line, got %v", err)
	}
}
