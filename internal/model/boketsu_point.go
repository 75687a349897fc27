// Package model 定义了与数据库表对应的结构体以及交互事件/回复的载体类型。
package model

import "time"

// BoketsuPoint 定义了 boketsu_points 表的 ORM 模型。
// 每个 actor（Discord 用户 ID）至多一行；首次查询时惰性创建，从不删除。
type BoketsuPoint struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"actorId"`
	Point     int64     `gorm:"not null;default:0" json:"point"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (BoketsuPoint) TableName() string {
	return "boketsu_points"
}
