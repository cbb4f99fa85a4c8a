package shared

import (
	"github.com/referral-ledger/internal/constants"
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		fields := []interface{}{
			"code", appErr.Code,
			"message", appErr.Message,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", appErr.Err,
		}
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error", fields...)
		} else {
			log.Infow("handler_rejected", fields...)
		}
	}
	response.ErrorWithDetails(c, appErr.Code, appErr.Message, appErr.Details)
}
