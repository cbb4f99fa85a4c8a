package ledger

import (
	"strconv"
	"strings"

	"github.com/referral-ledger/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 账本接口处理器
type Handler struct {
	*provider.Container
}

// New 创建账本处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func parseInvoiceID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid invoice id", "id must be a positive integer", err)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalInt 空字符串返回 0
func parseOptionalInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid query parameter", key+" must be an integer", err)
		return 0, false
	}
	return value, true
}

const maxPageSize = 500

// normalizePageSize 0 表示不分页
func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}
