package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"freshfleet/internal/domain"
	productsvc "freshfleet/internal/service/product"
)

// ProductService is the catalog surface the router needs.
type ProductService interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartService is the cart surface the router needs.
type CartService interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID string) (*domain.Cart, error)
	RepriceItem(ctx context.Context, customerID, productID string) (*domain.Cart, error)
}

// Deps holds the services the router depends on.
type Deps struct {
	ProductSvc ProductService
	CartSvc    CartService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.CartSvc == nil {
		return nil, errors.New("httpserver: product and cart services are required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(allowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/products", createProductHandler(deps.ProductSvc, logger))
	router.GET("/products", listProductsHandler(deps.ProductSvc, logger))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc, logger))
	// gin cannot register /products/vendor/:vendorId next to
	// /products/:id, so vendor scoping lives under /vendors.
	router.GET("/vendors/:vendorId/products", listVendorProductsHandler(deps.ProductSvc, logger))
	router.PUT("/products/:id", updateProductHandler(deps.ProductSvc, logger))
	router.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc, logger))

	router.GET("/cart/:customerId", getCartHandler(deps.CartSvc, logger))
	router.POST("/cart/:customerId/items", addCartItemHandler(deps.CartSvc, logger))
	router.PUT("/cart/:customerId/items/:productId", updateCartItemHandler(deps.CartSvc, logger))
	router.DELETE("/cart/:customerId/items/:productId", removeCartItemHandler(deps.CartSvc, logger))
	router.POST("/cart/:customerId/items/:productId/reprice", repriceCartItemHandler(deps.CartSvc, logger))

	return router, nil
}
