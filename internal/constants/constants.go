package constants

// 授权对象
const (
	AuthzObjectInvoice     = "invoice"
	AuthzObjectBonusStatus = "bonus_status"
)

// 授权动作
const (
	AuthzActionUpdate = "update"
	AuthzActionDelete = "delete"
	AuthzActionSet    = "set"
)

// 季度常量
const (
	QuartersPerYear  = 4
	MonthsPerQuarter = 3
)

// 字段取值范围
const (
	MinInvoiceYear = 1
	MaxInvoiceYear = 9999
)

// 缓存 key
const (
	CacheKeyBonusStatusMap = "ledger:bonus_status_map"
	CacheKeyClientNames    = "ledger:client_names"
)

// 上下文 key
const (
	ContextKeyRequestID      = "request_id"
	ContextKeyActingIdentity = "acting_identity"
)
