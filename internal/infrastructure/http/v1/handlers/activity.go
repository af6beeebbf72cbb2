package handlers

import (
	"github.com/gin-gonic/gin"

	"meatledger/internal/domain/activity"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// ActivityHandler serves the activity log endpoints.
type ActivityHandler struct {
	*BaseHandler
	service *activity.Service
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(base *BaseHandler, service *activity.Service) *ActivityHandler {
	return &ActivityHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches activity routes to the group.
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Recent)
}

// Recent returns the most recent activity entries, newest first.
func (h *ActivityHandler) Recent(c *gin.Context) {
	n := h.ParseIntQuery(c, "limit", activity.MaxEntries)

	entries, err := h.service.Recent(c.Request.Context(), n)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKList(c, dto.FromActivityEntries(entries), len(entries), n, 0)
}
