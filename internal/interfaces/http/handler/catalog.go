package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
)

// CatalogHandler serves the storefront catalog
type CatalogHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products *catalogapp.ProductService) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// SearchProducts godoc
// @Summary      Search products
// @Description  Storefront search with category, price range and sort
// @Tags         catalog
// @Produce      json
// @Param        q          query string false "Text matched against name and description"
// @Param        category   query string false "Category, or \"new\" for new arrivals"
// @Param        min_price  query string false "Inclusive lower price bound"
// @Param        max_price  query string false "Inclusive upper price bound"
// @Param        sort       query string false "popular, price_asc, price_desc or newest"
// @Param        limit      query int    false "Page size, default 12"
// @Success      200 {object} dto.Response{data=catalogapp.SearchProductsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products [get]
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	var req catalogapp.SearchProductsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.products.Search(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Categories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Router       /catalog/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetProduct godoc
// @Summary      Product detail
// @Description  Returns the product and records a view for the session
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetDetail(c.Request.Context(), id, middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
