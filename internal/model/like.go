package model

import "time"

// Like 点赞关系
type Like struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"not null;index:idx_like_pair,unique"`
	MessageID int64 `gorm:"not null;index:idx_like_pair,unique"`
	// 复合唯一键，并发 toggle 也不会产生重复点赞
	// idx_like_pair = (user_id, message_id)
	CreatedAt time.Time

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string { return "likes" }
