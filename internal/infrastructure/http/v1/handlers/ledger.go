package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves the allocation record endpoints: opening an
// allocation and moving quantity between its pools.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches allocation routes to the group.
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Open)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/reserve", h.Reserve)
	rg.POST("/:id/release", h.Release)
	rg.POST("/:id/consume", h.Consume)
}

// Open opens an allocation record for a batch.
func (h *LedgerHandler) Open(c *gin.Context) {
	var req dto.OpenAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batchID, err := id.Parse(req.BatchID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batch id").
			WithDetail("field", "batchId").
			WithDetail("value", req.BatchID))
		return
	}

	record, err := h.service.OpenAllocation(c.Request.Context(), batchID, req.Location)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAllocation(record))
}

// GetByID returns one allocation record with its derived status.
func (h *LedgerHandler) GetByID(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), allocationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAllocation(record))
}

// List returns allocation records, newest first.
func (h *LedgerHandler) List(c *gin.Context) {
	filter := ledger.ListFilter{
		Location: c.Query("location"),
		Limit:    h.ParseIntQuery(c, "limit", 0),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}
	for _, status := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, ledger.Status(status))
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKList(c, dto.FromAllocations(records), len(records), filter.Limit, filter.Offset)
}

// Reserve moves quantity from available to reserved.
func (h *LedgerHandler) Reserve(c *gin.Context) {
	h.move(c, h.service.Reserve)
}

// Release returns reserved quantity to available.
func (h *LedgerHandler) Release(c *gin.Context) {
	h.move(c, h.service.Release)
}

// Consume permanently removes available quantity without a disposition
// record (spoilage, write-off). Sales go through the disposition endpoint.
func (h *LedgerHandler) Consume(c *gin.Context) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.QuantityMoveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.service.Consume(c.Request.Context(), allocationID, req.Quantity, false)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAllocation(record))
}

type moveFn func(ctx context.Context, allocationID id.ID, qty types.Quantity) (*ledger.AllocationRecord, error)

func (h *LedgerHandler) move(c *gin.Context, fn moveFn) {
	allocationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.QuantityMoveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := fn(c.Request.Context(), allocationID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAllocation(record))
}
