package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

var (
	ErrFollowSelf = errors.New("cannot follow self")
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID int64) error
	Unfollow(ctx context.Context, fromUserID, toUserID int64) error
	IsFollowing(ctx context.Context, userID, otherID int64) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64) ([]*model.User, error)
	ListFollowers(ctx context.Context, userID int64) ([]*model.User, error)
}

type relationshipService struct {
	follows repository.FollowRepository
	stats   *cache.StatsCache
}

func NewRelationshipService(follows repository.FollowRepository, stats *cache.StatsCache) RelationshipService {
	return &relationshipService{follows: follows, stats: stats}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID int64) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	if err := s.follows.Create(ctx, toUserID, fromUserID); err != nil {
		return err
	}
	// 双方计数都变了
	s.stats.Invalidate(ctx, fromUserID, toUserID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID int64) error {
	if err := s.follows.Delete(ctx, toUserID, fromUserID); err != nil {
		return err
	}
	s.stats.Invalidate(ctx, fromUserID, toUserID)
	return nil
}

// IsFollowing userID 是否关注了 otherID
func (s *relationshipService) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.follows.Exists(ctx, otherID, userID)
}

// IsFollowedBy userID 是否被 otherID 关注
func (s *relationshipService) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.follows.Exists(ctx, userID, otherID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID int64) ([]*model.User, error) {
	return s.follows.ListFollowing(ctx, userID)
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	return s.follows.ListFollowers(ctx, userID)
}
