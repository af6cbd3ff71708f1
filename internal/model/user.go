package model

// DefaultImageURL 未提供头像时的占位图
const DefaultImageURL = "/static/images/default-pic.png"

// DefaultHeaderImageURL 个人页头图占位
const DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"

// User 用户（warbler 账号）
type User struct {
	ID             int64  `gorm:"primaryKey"`
	Username       string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email          string `gorm:"type:varchar(128);uniqueIndex;not null"`
	// Password 只存 bcrypt 哈希，绝不存明文
	Password       string `gorm:"type:varchar(128);not null"`
	ImageURL       string `gorm:"type:varchar(255)"`
	HeaderImageURL string `gorm:"type:varchar(255)"`
	Bio            string `gorm:"type:text"`
	Location       string `gorm:"type:varchar(64)"`
}

func (User) TableName() string { return "users" }
