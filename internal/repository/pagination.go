package repository

import "gorm.io/gorm"

// maxListPageSize 单页上限，与 HTTP 层保持一致
const maxListPageSize = 500

// applyPagination 按页截取，pageSize <= 0 时不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
