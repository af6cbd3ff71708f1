package model

import "time"

// Follow 关注关系（follower 关注 followed）
type Follow struct {
	// 复合主键 (user_being_followed_id, user_following_id)，天然防止重复关注
	UserBeingFollowedID int64 `gorm:"primaryKey;autoIncrement:false;column:user_being_followed_id"`
	UserFollowingID     int64 `gorm:"primaryKey;autoIncrement:false;column:user_following_id"`
	CreatedAt           time.Time

	Followed User `gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE"`
	Follower User `gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "follows" }
