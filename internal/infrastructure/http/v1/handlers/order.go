package handlers

import (
	"github.com/gin-gonic/gin"

	"meatledger/internal/domain/order"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves the order tracker endpoints.
type OrderHandler struct {
	*BaseHandler
	service *order.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches order routes to the group.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/transition", h.Transition)
}

// Create submits a new order.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromOrder(o))
}

// GetByID returns one order.
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}

// Transition moves an order to a new status.
func (h *OrderHandler) Transition(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Transition(c.Request.Context(), orderID, order.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(o))
}

// List returns orders, newest first.
func (h *OrderHandler) List(c *gin.Context) {
	filter := order.ListFilter{
		Requester: c.Query("requester"),
		GoodsType: c.Query("goodsType"),
		Limit:     h.ParseIntQuery(c, "limit", 0),
		Offset:    h.ParseIntQuery(c, "offset", 0),
	}
	for _, status := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, order.Status(status))
	}

	orders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKList(c, dto.FromOrders(orders), len(orders), filter.Limit, filter.Offset)
}
