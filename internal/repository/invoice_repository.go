package repository

import (
	"errors"
	"strings"

	"github.com/referral-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository 发票数据访问接口
type InvoiceRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InvoiceRepository

	List(filter InvoiceListFilter) ([]models.Invoice, error)
	ListYearsByReferrer(referrer string) ([]int, error)
	GetByID(id uint) (*models.Invoice, error)
	GetByIDForUpdate(id uint) (*models.Invoice, error)
	Create(invoice *models.Invoice) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
}

// GormInvoiceRepository GORM 实现
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓库
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) InvoiceRepository {
	if tx == nil {
		return r
	}
	return &GormInvoiceRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInvoiceRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 按 id 倒序列出发票
func (r *GormInvoiceRepository) List(filter InvoiceListFilter) ([]models.Invoice, error) {
	query := r.db.Model(&models.Invoice{})
	if referrer := strings.TrimSpace(filter.Referrer); referrer != "" {
		query = query.Where("referrer = ?", referrer)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}

	invoices := make([]models.Invoice, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListYearsByReferrer 推荐人出现过的年份（倒序）
func (r *GormInvoiceRepository) ListYearsByReferrer(referrer string) ([]int, error) {
	years := make([]int, 0)
	err := r.db.Model(&models.Invoice{}).
		Where("referrer = ?", strings.TrimSpace(referrer)).
		Distinct("year").
		Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

// GetByID 根据 ID 获取发票，不存在返回 nil
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByIDForUpdate 加行锁读取发票（需在事务内调用）
func (r *GormInvoiceRepository) GetByIDForUpdate(id uint) (*models.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// Create 创建发票
func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// UpdateFields 仅更新给定列
func (r *GormInvoiceRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 永久删除发票
func (r *GormInvoiceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Invoice{}, id).Error
}
