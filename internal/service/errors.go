package service

import (
	"errors"
	"fmt"
	"strings"
)

// 账本错误分类
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("record not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrStore         = errors.New("store failure")
	ErrInvalidToken  = errors.New("invalid identity token")
)

// LedgerError 携带分类、面向调用方的描述与内部原因
// Detail 可直接展示；Err 只用于日志，不对外输出
type LedgerError struct {
	Kind    error
	Message string
	Detail  string
	Fields  []string
	Err     error
}

func (e *LedgerError) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is 按分类匹配
func (e *LedgerError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// AsLedgerError 提取 LedgerError
func AsLedgerError(err error) (*LedgerError, bool) {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr, true
	}
	return nil, false
}

func validationError(fields []string, detail string) error {
	if detail == "" && len(fields) > 0 {
		detail = "invalid fields: " + strings.Join(fields, ", ")
	}
	return &LedgerError{
		Kind:    ErrValidation,
		Message: "invalid invoice data",
		Detail:  detail,
		Fields:  fields,
	}
}

func invalidInputError(message, detail string) error {
	return &LedgerError{Kind: ErrValidation, Message: message, Detail: detail}
}

func invoiceNotFound(id uint) error {
	return &LedgerError{
		Kind:    ErrNotFound,
		Message: "invoice not found",
		Detail:  fmt.Sprintf("invoice %d does not exist", id),
	}
}

func invoiceNotAuthorized(id uint, owner, actor, action string) error {
	return &LedgerError{
		Kind:    ErrNotAuthorized,
		Message: "not authorized",
		Detail:  fmt.Sprintf("invoice %d is owned by %q, acting identity %q may not %s it", id, owner, actor, action),
	}
}

func bonusNotAuthorized(referrer, actor string, year, quarter int) error {
	period := fmt.Sprintf("%d-Q%d", year, quarter)
	if year == 0 {
		period = fmt.Sprintf("Q%d", quarter)
	}
	return &LedgerError{
		Kind:    ErrNotAuthorized,
		Message: "not authorized",
		Detail:  fmt.Sprintf("bonus status %s of %q may only be changed by %q, acting identity is %q", period, referrer, referrer, actor),
	}
}

func createNotAuthorized(referrer, actor string) error {
	return &LedgerError{
		Kind:    ErrNotAuthorized,
		Message: "not authorized",
		Detail:  fmt.Sprintf("acting identity %q may not record invoices for %q", actor, referrer),
	}
}

func storeError(op string, err error) error {
	return &LedgerError{
		Kind:    ErrStore,
		Message: "storage failure",
		Detail:  op,
		Err:     err,
	}
}

// PublicMessage 对外展示的完整描述，不含内部原因
func PublicMessage(err error) string {
	ledgerErr, ok := AsLedgerError(err)
	if !ok {
		return ErrStore.Error()
	}
	if ledgerErr.Detail == "" {
		return ledgerErr.Message
	}
	return ledgerErr.Message + ": " + ledgerErr.Detail
}
