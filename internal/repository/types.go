package repository

// InvoiceListFilter 查询发票列表的过滤条件
// PageSize 为 0 时不分页
type InvoiceListFilter struct {
	Referrer string
	Year     int
	Page     int
	PageSize int
}
