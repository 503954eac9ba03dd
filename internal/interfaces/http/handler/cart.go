package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	cartapp "github.com/vetcollars/storefront/internal/application/cart"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
)

// CartHandler serves the session cart
type CartHandler struct {
	BaseHandler
	carts *cartapp.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cartapp.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem godoc
// @Summary      Add sizes of a product
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Product and size quantities"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateQuantity godoc
// @Summary      Set the quantity of one size
// @Description  Zero removes the size; an item without sizes leaves the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path int    true "Product ID"
// @Param        size      path string true "Size label"
// @Param        request   body cartapp.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart/items/{productId}/sizes/{size} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := h.int64Param(c, "productId")
	if !ok {
		return
	}
	size := strings.TrimSpace(c.Param("size"))
	if size == "" {
		h.BadRequest(c, "Invalid size")
		return
	}
	var req cartapp.UpdateQuantityRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), productID, size, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem godoc
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        productId path int true "Product ID"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.int64Param(c, "productId")
	if !ok {
		return
	}

	resp, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	resp, err := h.carts.Clear(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Checkout godoc
// @Summary      Submit the cart as an order
// @Description  The cart is cleared only when the order was stored
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body cartapp.CheckoutRequest true "Customer details"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req cartapp.CheckoutRequest
	if !h.bind(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	resp, err := h.carts.Checkout(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
