package repository

import (
	"strings"

	"github.com/referral-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientNameRepository 客户名称数据访问接口
type ClientNameRepository interface {
	List() ([]string, error)
	Search(prefix string, limit int) ([]string, error)
	Record(name string) error
}

// GormClientNameRepository GORM 实现
type GormClientNameRepository struct {
	db *gorm.DB
}

// NewClientNameRepository 创建客户名称仓库
func NewClientNameRepository(db *gorm.DB) *GormClientNameRepository {
	return &GormClientNameRepository{db: db}
}

// List 按名称排序返回全部客户名称
func (r *GormClientNameRepository) List() ([]string, error) {
	names := make([]string, 0)
	if err := r.db.Model(&models.ClientName{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Search 按前缀（不区分大小写）查找客户名称
func (r *GormClientNameRepository) Search(prefix string, limit int) ([]string, error) {
	query := r.db.Model(&models.ClientName{})
	if strings.TrimSpace(prefix) != "" {
		query = query.Where(prefixMatchCondition(r.db, "name"), prefixLikeArg(prefix))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	names := make([]string, 0)
	if err := query.Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Record 记录客户名称，已存在时忽略
func (r *GormClientNameRepository) Record(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.ClientName{Name: trimmed}).Error
}
