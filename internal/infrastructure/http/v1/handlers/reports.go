package handlers

import (
	"github.com/gin-gonic/gin"

	"meatledger/internal/domain/reports"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the aggregator endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches report routes to the group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Summary)
}

// Summary returns all dashboard metrics in one consistent snapshot.
func (h *ReportsHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSummary(summary))
}
