package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type LikeRepository interface {
	Create(ctx context.Context, userID, messageID int64) error
	Delete(ctx context.Context, userID, messageID int64) error
	Exists(ctx context.Context, userID, messageID int64) (bool, error)
	// ListMessages 某用户点过赞的全部消息，按点赞时间倒序
	ListMessages(ctx context.Context, userID int64) ([]*model.Message, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountByMessage(ctx context.Context, messageID int64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, messageID int64) error {
	l := &model.Like{UserID: userID, MessageID: messageID}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, messageID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&model.Like{}).Error
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) ListMessages(ctx context.Context, userID int64) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *likeRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) CountByMessage(ctx context.Context, messageID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("message_id = ?", messageID).
		Count(&cnt).Error
	return cnt, err
}
