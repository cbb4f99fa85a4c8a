package ledger

import (
	"github.com/referral-ledger/internal/http/handlers/shared"
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/repository"
	"github.com/referral-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInvoiceRequest 创建发票请求
type CreateInvoiceRequest struct {
	service.InvoiceInput
	ActingIdentity string `json:"actingIdentity"`
}

// UpdateInvoiceRequest 局部更新发票请求
type UpdateInvoiceRequest struct {
	service.InvoicePatch
	ActingIdentity string `json:"actingIdentity"`
}

// SetInvoicePaidRequest 修改结清状态请求
type SetInvoicePaidRequest struct {
	Paid           *bool  `json:"paid"`
	ActingIdentity string `json:"actingIdentity"`
}

// InvoiceIDResponse 写操作返回的发票 ID
type InvoiceIDResponse struct {
	ID uint `json:"id"`
}

// ListInvoices 发票列表
func (h *Handler) ListInvoices(c *gin.Context) {
	year, ok := parseOptionalInt(c, "year")
	if !ok {
		return
	}
	page, ok := parseOptionalInt(c, "page")
	if !ok {
		return
	}
	pageSize, ok := parseOptionalInt(c, "page_size")
	if !ok {
		return
	}
	invoices, err := h.LedgerService.ListInvoices(repository.InvoiceListFilter{
		Referrer: c.Query("referrer"),
		Year:     year,
		Page:     page,
		PageSize: normalizePageSize(pageSize),
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, invoices)
}

// GetInvoice 发票详情
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	invoice, err := h.LedgerService.GetInvoice(id)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, invoice)
}

// CreateInvoice 创建发票
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	actor := shared.ResolveActingIdentity(c, req.ActingIdentity)
	invoice, err := h.LedgerService.RecordInvoice(c.Request.Context(), req.InvoiceInput, actor)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("invoice_created",
		"invoice_id", invoice.ID,
		"referrer", invoice.Referrer,
	)
	response.Success(c, InvoiceIDResponse{ID: invoice.ID})
}

// UpdateInvoice 局部更新发票
func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	actor := shared.ResolveActingIdentity(c, req.ActingIdentity)
	invoice, err := h.LedgerService.UpdateInvoice(id, req.InvoicePatch, actor)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, InvoiceIDResponse{ID: invoice.ID})
}

// SetInvoicePaid 修改发票结清状态
func (h *Handler) SetInvoicePaid(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	var req SetInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	if req.Paid == nil {
		respondBadRequest(c, "invalid request", "paid is required", nil)
		return
	}
	actor := shared.ResolveActingIdentity(c, req.ActingIdentity)
	invoice, err := h.LedgerService.ToggleInvoicePaid(id, *req.Paid, actor)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, InvoiceIDResponse{ID: invoice.ID})
}

// DeleteInvoice 删除发票，身份通过查询参数传入
func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	actor := shared.ResolveActingIdentity(c, c.Query("actingIdentity"), c.Query("createdBy"))
	if err := h.LedgerService.DeleteInvoice(id, actor); err != nil {
		respondWithMappedError(c, err)
		return
	}
	shared.RequestLog(c).Infow("invoice_deleted", "invoice_id", id, "acting_identity", actor)
	response.Success(c, InvoiceIDResponse{ID: id})
}
