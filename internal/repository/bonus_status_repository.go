package repository

import (
	"strings"
	"time"

	"github.com/referral-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BonusStatusRepository 季度佣金发放标记数据访问接口
type BonusStatusRepository interface {
	Get(referrer string, year, quarter int) (*models.BonusPaidStatus, error)
	Upsert(status *models.BonusPaidStatus) error
	List() ([]models.BonusPaidStatus, error)
	ListByReferrer(referrer string) ([]models.BonusPaidStatus, error)
}

// GormBonusStatusRepository GORM 实现
type GormBonusStatusRepository struct {
	db *gorm.DB
}

// NewBonusStatusRepository 创建发放标记仓库
func NewBonusStatusRepository(db *gorm.DB) *GormBonusStatusRepository {
	return &GormBonusStatusRepository{db: db}
}

// Get 读取指定季度标记，不存在返回 nil
func (r *GormBonusStatusRepository) Get(referrer string, year, quarter int) (*models.BonusPaidStatus, error) {
	var status models.BonusPaidStatus
	result := r.db.
		Where("referrer = ? AND year = ? AND quarter = ?", strings.TrimSpace(referrer), year, quarter).
		Limit(1).
		Find(&status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &status, nil
}

// Upsert 按 (referrer, year, quarter) 写入标记
func (r *GormBonusStatusRepository) Upsert(status *models.BonusPaidStatus) error {
	if status == nil {
		return nil
	}
	now := time.Now()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = now
	}
	status.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "referrer"},
			{Name: "year"},
			{Name: "quarter"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"paid", "updated_at"}),
	}).Create(status).Error
}

// List 列出全部标记
func (r *GormBonusStatusRepository) List() ([]models.BonusPaidStatus, error) {
	statuses := make([]models.BonusPaidStatus, 0)
	if err := r.db.Order("referrer ASC, year DESC, quarter ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ListByReferrer 列出推荐人的全部标记
func (r *GormBonusStatusRepository) ListByReferrer(referrer string) ([]models.BonusPaidStatus, error) {
	statuses := make([]models.BonusPaidStatus, 0)
	err := r.db.
		Where("referrer = ?", strings.TrimSpace(referrer)).
		Order("year DESC, quarter ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
