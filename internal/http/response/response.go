package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success 成功响应，直接输出数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithDetails(c, statusCode, msg, nil)
}

// ErrorWithDetails 错误响应（带细节）
func ErrorWithDetails(c *gin.Context, statusCode int, msg string, details interface{}) {
	if statusCode < http.StatusBadRequest {
		statusCode = CodeInternal
	}
	if text, ok := details.(string); ok && strings.TrimSpace(text) == "" {
		details = nil
	}
	c.JSON(statusCode, ErrorBody{
		Message:   msg,
		Details:   details,
		RequestID: requestIDFrom(c),
	})
}

// AbortWithError 中止请求并输出错误
func AbortWithError(c *gin.Context, appErr *AppError) {
	ErrorWithDetails(c, appErr.Code, appErr.Message, appErr.Details)
	c.Abort()
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

func requestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
