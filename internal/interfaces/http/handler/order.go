package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/vetcollars/storefront/internal/application/order"
)

// OrderHandler serves order submission and the back office order list
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Submit godoc
// @Summary      Submit an order
// @Description  Validation errors are returned with a customer facing message.
// @Description  ORDER_SUBMIT_FAILED (503) is safe to retry.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body orderapp.SubmitOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	var req orderapp.SubmitOrderRequest
	if !h.bind(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	resp, err := h.orders.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List orders
// @Tags         admin-orders
// @Produce      json
// @Param        status    query string false "new or completed"
// @Param        search    query string false "Customer name or phone"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req orderapp.OrderListFilter
	if !h.bindQuery(c, &req) {
		return
	}

	page, err := h.orders.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Order detail
// @Tags         admin-orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	resp, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @Summary      Change order status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path int true "Order ID"
// @Param        request body orderapp.UpdateStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
