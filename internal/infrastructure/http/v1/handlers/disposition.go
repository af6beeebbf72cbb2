package handlers

import (
	"github.com/gin-gonic/gin"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// DispositionHandler serves the disposition recorder endpoints.
type DispositionHandler struct {
	*BaseHandler
	service *disposition.Service
}

// NewDispositionHandler creates a disposition handler.
func NewDispositionHandler(base *BaseHandler, service *disposition.Service) *DispositionHandler {
	return &DispositionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches disposition routes to the group.
func (h *DispositionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// Record records a sale or shipment against an allocation.
func (h *DispositionHandler) Record(c *gin.Context) {
	var req dto.RecordDispositionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.Record(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDisposition(record))
}

// GetByID returns one disposition record.
func (h *DispositionHandler) GetByID(c *gin.Context) {
	recordID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDisposition(record))
}

// List returns disposition records, newest first.
func (h *DispositionHandler) List(c *gin.Context) {
	filter := disposition.ListFilter{
		Buyer:  c.Query("buyer"),
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("batchId"); raw != "" {
		batchID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batch id").
				WithDetail("param", "batchId").
				WithDetail("value", raw))
			return
		}
		filter.BatchID = &batchID
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKList(c, dto.FromDispositions(records), len(records), filter.Limit, filter.Offset)
}
