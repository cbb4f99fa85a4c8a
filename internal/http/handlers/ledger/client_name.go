package ledger

import (
	"github.com/referral-ledger/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RecordClientNameRequest 登记客户名称请求
type RecordClientNameRequest struct {
	Name string `json:"name"`
}

// ListClientNames 客户名称列表，带 q 参数时按前缀查找
func (h *Handler) ListClientNames(c *gin.Context) {
	if prefix, ok := c.GetQuery("q"); ok {
		limit, ok := parseOptionalInt(c, "limit")
		if !ok {
			return
		}
		names, err := h.LedgerService.SearchClientNames(prefix, limit)
		if err != nil {
			respondWithMappedError(c, err)
			return
		}
		response.Success(c, names)
		return
	}
	names, err := h.LedgerService.ListClientNames(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, names)
}

// RecordClientName 登记客户名称
func (h *Handler) RecordClientName(c *gin.Context) {
	var req RecordClientNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error(), err)
		return
	}
	name, err := h.LedgerService.RecordClientName(c.Request.Context(), req.Name)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, gin.H{"name": name})
}
