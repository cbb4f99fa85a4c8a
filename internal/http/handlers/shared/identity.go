package shared

import (
	"strings"

	"github.com/referral-ledger/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveActingIdentity 令牌中的身份优先，其次使用请求中声明的身份
func ResolveActingIdentity(c *gin.Context, declared ...string) string {
	if identity, ok := TokenIdentity(c); ok {
		return identity
	}
	for _, candidate := range declared {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// TokenIdentity 仅返回令牌中的身份
func TokenIdentity(c *gin.Context) (string, bool) {
	if c == nil {
		return "", false
	}
	value, ok := c.Get(constants.ContextKeyActingIdentity)
	if !ok {
		return "", false
	}
	identity, ok := value.(string)
	identity = strings.TrimSpace(identity)
	return identity, ok && identity != ""
}
