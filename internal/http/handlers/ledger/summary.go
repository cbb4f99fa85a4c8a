package ledger

import (
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetSummary 推荐人季度佣金汇总表
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.LedgerService.Summary(c.Request.Context(), repository.InvoiceListFilter{
		Referrer: c.Query("referrer"),
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, summary)
}
