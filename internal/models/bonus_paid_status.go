package models

import (
	"fmt"
	"time"
)

// BonusPaidStatus 季度佣金发放标记
// (referrer, year, quarter) 唯一，与发票记录相互独立
type BonusPaidStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Referrer  string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_bonus_paid_status_key,priority:1" json:"referrer"`
	Year      int       `gorm:"not null;uniqueIndex:idx_bonus_paid_status_key,priority:2" json:"year"`
	Quarter   int       `gorm:"not null;uniqueIndex:idx_bonus_paid_status_key,priority:3" json:"quarter"`
	Paid      bool      `gorm:"not null;default:false" json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (BonusPaidStatus) TableName() string {
	return "bonus_paid_statuses"
}

// PeriodKey 返回 "year-quarter" 形式的键
func (s BonusPaidStatus) PeriodKey() string {
	return BonusPeriodKey(s.Year, s.Quarter)
}

// BonusPeriodKey 组装 "year-quarter" 键
func BonusPeriodKey(year, quarter int) string {
	return fmt.Sprintf("%d-%d", year, quarter)
}
