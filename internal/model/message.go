package model

import "time"

// MaxMessageLen 消息正文长度上限
const MaxMessageLen = 140

// Message 消息（warble）
type Message struct {
	ID        int64     `gorm:"primaryKey"`
	Text      string    `gorm:"type:varchar(140);not null"`
	Timestamp time.Time `gorm:"not null"`
	UserID    int64     `gorm:"not null;index:idx_message_user"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string { return "messages" }
