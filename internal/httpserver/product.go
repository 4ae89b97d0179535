package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
	productsvc "freshfleet/internal/service/product"
)

type createProductRequest struct {
	Name                string                 `json:"name"`
	TotalQuantityWeight *decimal.Decimal       `json:"totalQuantityWeight"`
	PricePerKg          *decimal.Decimal       `json:"pricePerKg"`
	VendorID            string                 `json:"vendorId"`
	Category            string                 `json:"category"`
	Nutrition           map[string]interface{} `json:"nutrition"`
}

type updateProductRequest struct {
	Name                *string                `json:"name"`
	Category            *string                `json:"category"`
	TotalQuantityWeight *decimal.Decimal       `json:"totalQuantityWeight"`
	PricePerKg          *decimal.Decimal       `json:"pricePerKg"`
	Nutrition           map[string]interface{} `json:"nutrition"`
}

func createProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		if req.TotalQuantityWeight == nil {
			respondValidation(c, "totalQuantityWeight is required")
			return
		}
		if req.PricePerKg == nil {
			respondValidation(c, "pricePerKg is required")
			return
		}

		product, err := svc.Create(c.Request.Context(), productsvc.CreateInput{
			Name:       req.Name,
			VendorID:   req.VendorID,
			Category:   req.Category,
			PricePerKg: *req.PricePerKg,
			QuantityKg: *req.TotalQuantityWeight,
			Nutrition:  req.Nutrition,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func listProductsHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := parseCatalogQuery(c)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		products, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		products = filterByName(products, query.Search)
		sortByNutrient(products, query.SortBy, query.Descending)
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// listVendorProductsHandler keeps the original storefront contract: a
// vendor with zero products is reported as not found rather than an
// empty list.
func listVendorProductsHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListByVendor(c.Request.Context(), c.Param("vendorId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if len(products) == 0 {
			c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Message: "no products found for this vendor"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func updateProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		product, err := svc.Update(c.Request.Context(), c.Param("id"), productsvc.UpdateInput{
			Name:       req.Name,
			Category:   req.Category,
			PricePerKg: req.PricePerKg,
			QuantityKg: req.TotalQuantityWeight,
			Nutrition:  req.Nutrition,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
	}
}
