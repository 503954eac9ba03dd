package handler

import (
	"github.com/gin-gonic/gin"
	analyticsapp "github.com/vetcollars/storefront/internal/application/analytics"
)

// AnalyticsHandler serves the back office activity report
type AnalyticsHandler struct {
	BaseHandler
	analytics *analyticsapp.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Report godoc
// @Summary      Activity report
// @Description  Most viewed products and most frequent searches
// @Tags         admin-analytics
// @Produce      json
// @Param        limit query int false "Rows per ranking"
// @Param        days  query int false "Look back window in days"
// @Success      200 {object} dto.Response{data=analytics.Report}
// @Security     BearerAuth
// @Router       /admin/analytics [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	var req analyticsapp.ReportRequest
	if !h.bindQuery(c, &req) {
		return
	}

	report, err := h.analytics.Report(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
