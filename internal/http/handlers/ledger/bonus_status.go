package ledger

import (
	"errors"

	"github.com/referral-ledger/internal/http/handlers/shared"
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// SetBonusStatusRequest 写入季度发放标记请求
type SetBonusStatusRequest struct {
	Referrer       string `json:"referrer"`
	Year           int    `json:"year"`
	Quarter        int    `json:"quarter"`
	Paid           *bool  `json:"paid"`
	ActingIdentity string `json:"actingIdentity"`
}

// CascadeBonusStatusRequest 按季度批量写入请求，years 为空表示全部展示年份
type CascadeBonusStatusRequest struct {
	Referrer       string `json:"referrer"`
	Quarter        int    `json:"quarter"`
	Paid           *bool  `json:"paid"`
	Years          []int  `json:"years"`
	ActingIdentity string `json:"actingIdentity"`
}

// GetBonusStatusMap 全部发放标记
func (h *Handler) GetBonusStatusMap(c *gin.Context) {
	statuses, err := h.LedgerService.BonusStatusMap(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, statuses)
}

// SetBonusStatus 写入单个季度发放标记
func (h *Handler) SetBonusStatus(c *gin.Context) {
	var req SetBonusStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	if req.Paid == nil {
		respondBadRequest(c, "invalid request", "paid is required", nil)
		return
	}
	actor := shared.ResolveActingIdentity(c, req.ActingIdentity)
	if err := h.LedgerService.SetQuarterPaid(c.Request.Context(), req.Referrer, req.Year, req.Quarter, *req.Paid, actor); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, gin.H{
		"referrer": req.Referrer,
		"year":     req.Year,
		"quarter":  req.Quarter,
		"paid":     *req.Paid,
	})
}

// CascadeBonusStatus 批量写入同一季度，部分失败时返回 500 并附带结果
func (h *Handler) CascadeBonusStatus(c *gin.Context) {
	var req CascadeBonusStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	if req.Paid == nil {
		respondBadRequest(c, "invalid request", "paid is required", nil)
		return
	}
	actor := shared.ResolveActingIdentity(c, req.ActingIdentity)
	result, err := h.LedgerService.ToggleQuarterPaid(c.Request.Context(), req.Referrer, req.Quarter, *req.Paid, req.Years, actor)
	if err != nil {
		if result == nil {
			respondWithMappedError(c, err)
			return
		}
		appErr := response.WrapError(response.CodeInternal, "bonus status partially applied", err).WithDetails(result)
		if !errors.Is(err, service.ErrStore) {
			appErr.Message = "bonus status not applied for some years"
		}
		shared.RespondError(c, appErr)
		return
	}
	response.Success(c, result)
}

// GetQuarterlyBonus 单个季度佣金
func (h *Handler) GetQuarterlyBonus(c *gin.Context) {
	year, ok := parseOptionalInt(c, "year")
	if !ok {
		return
	}
	quarter, ok := parseOptionalInt(c, "quarter")
	if !ok {
		return
	}
	result, err := h.LedgerService.QuarterBonus(c.Query("referrer"), year, quarter)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, result)
}
