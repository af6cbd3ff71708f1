package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followedID, followerID int64) error
	Delete(ctx context.Context, followedID, followerID int64) error
	Exists(ctx context.Context, followedID, followerID int64) (bool, error)
	ListFollowing(ctx context.Context, followerID int64) ([]*model.User, error)
	ListFollowers(ctx context.Context, followedID int64) ([]*model.User, error)
	CountFollowing(ctx context.Context, followerID int64) (int64, error)
	CountFollowers(ctx context.Context, followedID int64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followedID, followerID int64) error {
	f := &model.Follow{UserBeingFollowedID: followedID, UserFollowingID: followerID}
	// 幂等：重复关注不报错
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followedID, followerID int64) error {
	return r.db.WithContext(ctx).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followedID, followerID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID int64) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", followerID).
		Order("users.id").
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followedID int64) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", followedID).
		Order("users.id").
		Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowing(ctx context.Context, followerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_following_id = ?", followerID).
		Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowers(ctx context.Context, followedID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_being_followed_id = ?", followedID).
		Count(&cnt).Error
	return cnt, err
}
