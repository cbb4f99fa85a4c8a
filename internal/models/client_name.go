package models

import "time"

// ClientName 历史客户名称（用于输入提示）
type ClientName struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 指定表名
func (ClientName) TableName() string {
	return "client_names"
}
