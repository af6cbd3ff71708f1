package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

var (
	// ErrLikeOwnMessage 不能给自己的消息点赞
	ErrLikeOwnMessage = errors.New("cannot like own message")
)

// LikeService 点赞开关
type LikeService interface {
	// Toggle 未点过则点赞，点过则取消；返回操作后的点赞状态。
	// 连续两次 Toggle 恢复原状。
	Toggle(ctx context.Context, userID, messageID int64) (bool, error)
	Liked(ctx context.Context, userID, messageID int64) (bool, error)
	ListLiked(ctx context.Context, userID int64) ([]*model.Message, error)
}

type likeService struct {
	db       *gorm.DB
	likes    repository.LikeRepository
	messages repository.MessageRepository
	stats    *cache.StatsCache
}

func NewLikeService(db *gorm.DB, likes repository.LikeRepository,
	messages repository.MessageRepository, stats *cache.StatsCache) LikeService {
	return &likeService{db: db, likes: likes, messages: messages, stats: stats}
}

func (s *likeService) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if m.UserID == userID {
		return false, ErrLikeOwnMessage
	}
	var liked bool
	// 查改同事务；并发重复点赞最终也会撞上 (user_id, message_id) 唯一键
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewLikeRepository(tx)
		exists, err := repo.Exists(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if exists {
			liked = false
			return repo.Delete(ctx, userID, messageID)
		}
		liked = true
		return repo.Create(ctx, userID, messageID)
	})
	if err != nil {
		return false, err
	}
	s.stats.Invalidate(ctx, userID)
	return liked, nil
}

func (s *likeService) Liked(ctx context.Context, userID, messageID int64) (bool, error) {
	return s.likes.Exists(ctx, userID, messageID)
}

func (s *likeService) ListLiked(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.likes.ListMessages(ctx, userID)
}
