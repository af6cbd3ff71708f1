package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Message, error)
	// Timeline 给定一组作者，按时间倒序取最近 limit 条
	Timeline(ctx context.Context, authorIDs []int64, limit int) ([]*model.Message, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	// 只写 messages 表，不触发关联写入
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Message{}, id).Error
}

func (r *messageRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&res).Error
	return res, err
}

func (r *messageRepository) Timeline(ctx context.Context, authorIDs []int64, limit int) ([]*model.Message, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", authorIDs).
		Order("timestamp DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *messageRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
