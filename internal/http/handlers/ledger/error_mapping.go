package ledger

import (
	"errors"

	handlershared "github.com/referral-ledger/internal/http/handlers/shared"
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target  error
	code    int
	message string
	// public 为 false 时不对外输出细节
	public bool
}

var ledgerErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, message: "invalid request", public: true},
	{target: service.ErrNotFound, code: response.CodeNotFound, message: "not found", public: true},
	{target: service.ErrNotAuthorized, code: response.CodeForbidden, message: "not authorized", public: true},
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, message: "invalid identity token", public: true},
	{target: service.ErrStore, code: response.CodeInternal, message: "storage failure"},
}

func respondWithMappedError(c *gin.Context, err error) {
	for _, rule := range ledgerErrorRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		appErr := response.WrapError(rule.code, rule.message, err)
		if ledgerErr, ok := service.AsLedgerError(err); ok && rule.public {
			if ledgerErr.Message != "" {
				appErr.Message = ledgerErr.Message
			}
			if ledgerErr.Detail != "" {
				appErr.Details = ledgerErr.Detail
			}
		}
		handlershared.RespondError(c, appErr)
		return
	}
	handlershared.RespondError(c, response.WrapError(response.CodeInternal, "internal error", err))
}

func respondBadRequest(c *gin.Context, message, details string, err error) {
	handlershared.RespondError(c, response.WrapError(response.CodeBadRequest, message, err).WithDetails(details))
}
