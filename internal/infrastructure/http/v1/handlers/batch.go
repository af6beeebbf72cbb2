package handlers

import (
	"github.com/gin-gonic/gin"

	"meatledger/internal/domain/batch"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// BatchHandler serves the batch registry endpoints.
type BatchHandler struct {
	*BaseHandler
	service *batch.Service
}

// NewBatchHandler creates a batch handler.
func NewBatchHandler(base *BaseHandler, service *batch.Service) *BatchHandler {
	return &BatchHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches batch routes to the group.
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// Create registers an acquired batch.
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), req.ToFacts())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBatch(b))
}

// GetByID returns one batch.
func (h *BatchHandler) GetByID(c *gin.Context) {
	batchID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(b))
}

// List returns batches, newest first.
func (h *BatchHandler) List(c *gin.Context) {
	filter := batch.ListFilter{
		GoodsType: c.Query("goodsType"),
		Source:    c.Query("source"),
		Limit:     h.ParseIntQuery(c, "limit", 0),
		Offset:    h.ParseIntQuery(c, "offset", 0),
	}
	if kind := c.Query("kind"); kind != "" {
		k := batch.Kind(kind)
		filter.Kind = &k
	}

	batches, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKList(c, dto.FromBatches(batches), len(batches), filter.Limit, filter.Offset)
}
