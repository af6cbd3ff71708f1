package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

var (
	ErrTextRequired = errors.New("message text is required")
	ErrTextTooLong  = errors.New("message text exceeds 140 characters")
)

// MessageService 消息的发布、查询与删除
type MessageService interface {
	// Post 事务内落地消息；user_id 悬空时由外键约束报完整性错误
	Post(ctx context.Context, userID int64, text string) (*model.Message, error)
	Get(ctx context.Context, id int64) (*model.Message, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Message, error)
	// Timeline 当前用户及其关注对象的最近消息
	Timeline(ctx context.Context, userID int64, limit int) ([]*model.Message, error)
}

type messageService struct {
	db       *gorm.DB
	messages repository.MessageRepository
	follows  repository.FollowRepository
	stats    *cache.StatsCache
}

func NewMessageService(db *gorm.DB, messages repository.MessageRepository,
	follows repository.FollowRepository, stats *cache.StatsCache) MessageService {
	return &messageService{db: db, messages: messages, follows: follows, stats: stats}
}

func (s *messageService) Post(ctx context.Context, userID int64, text string) (*model.Message, error) {
	if text == "" {
		return nil, ErrTextRequired
	}
	if len([]rune(text)) > model.MaxMessageLen {
		return nil, ErrTextTooLong
	}
	m := &model.Message{Text: text, Timestamp: time.Now(), UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewMessageRepository(tx).Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	s.stats.Invalidate(ctx, userID)
	return m, nil
}

func (s *messageService) Get(ctx context.Context, id int64) (*model.Message, error) {
	return s.messages.GetByID(ctx, id)
}

func (s *messageService) Delete(ctx context.Context, id int64) error {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewMessageRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.stats.Invalidate(ctx, m.UserID)
	return nil
}

func (s *messageService) ListByUser(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.messages.ListByUser(ctx, userID)
}

func (s *messageService) Timeline(ctx context.Context, userID int64, limit int) ([]*model.Message, error) {
	following, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(following)+1)
	ids = append(ids, userID)
	for _, u := range following {
		ids = append(ids, u.ID)
	}
	return s.messages.Timeline(ctx, ids, limit)
}
