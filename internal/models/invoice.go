package models

import "time"

// Invoice 推荐发票
// CreatedBy 为唯一归属字段，创建时与 Referrer 相同
type Invoice struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Year            int       `gorm:"not null;index:idx_invoice_referrer_period,priority:2" json:"year"`
	Month           int       `gorm:"not null;index:idx_invoice_referrer_period,priority:3" json:"month"`
	ClientName      string    `gorm:"type:varchar(255);not null" json:"clientName"`
	Amount          Money     `gorm:"type:decimal(20,2);not null" json:"amount"`
	Referrer        string    `gorm:"type:varchar(120);not null;index:idx_invoice_referrer_period,priority:1" json:"referrer"`
	BonusPercentage Rate      `gorm:"type:decimal(10,4);not null" json:"bonusPercentage"`
	Paid            bool      `gorm:"not null;default:false" json:"paid"`
	CreatedBy       string    `gorm:"type:varchar(120);not null;index" json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}

// Owner 返回具有修改权限的身份
func (i *Invoice) Owner() string {
	if i == nil {
		return ""
	}
	return i.CreatedBy
}
