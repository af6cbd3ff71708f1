package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

var (
	// ErrPasswordRequired 注册前的业务校验，不落库
	ErrPasswordRequired = errors.New("password is required")
)

// UserService 账号：注册、认证、资料、删除
type UserService interface {
	Signup(ctx context.Context, username, email, password, imageURL string) (*model.User, error)
	// Authenticate 认证失败是正常结果（ok=false），error 只表示存储故障
	Authenticate(ctx context.Context, username, password string) (*model.User, bool, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Search(ctx context.Context, q string) ([]*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (cache.UserStats, error)
}

type userService struct {
	db       *gorm.DB
	users    repository.UserRepository
	messages repository.MessageRepository
	follows  repository.FollowRepository
	likes    repository.LikeRepository
	stats    *cache.StatsCache
}

func NewUserService(db *gorm.DB, users repository.UserRepository, messages repository.MessageRepository,
	follows repository.FollowRepository, likes repository.LikeRepository, stats *cache.StatsCache) UserService {
	return &userService{db: db, users: users, messages: messages, follows: follows, likes: likes, stats: stats}
}

func (s *userService) Signup(ctx context.Context, username, email, password, imageURL string) (*model.User, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		imageURL = model.DefaultImageURL
	}
	u := &model.User{
		Username:       username,
		Email:          email,
		Password:       string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: model.DefaultHeaderImageURL,
	}
	// 用户名/邮箱唯一性留给存储层约束，提交时报完整性错误
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, bool, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, false, nil
	}
	return u, true, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) Search(ctx context.Context, q string) ([]*model.User, error) {
	return s.users.Search(ctx, q)
}

func (s *userService) UpdateProfile(ctx context.Context, u *model.User) error {
	return s.users.Update(ctx, u)
}

// Delete 删除账号；消息、关注边、点赞随外键级联删除
func (s *userService) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewUserRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.stats.Invalidate(ctx, id)
	return nil
}

// Stats 四个计数器：messages / following / followers / likes
func (s *userService) Stats(ctx context.Context, id int64) (cache.UserStats, error) {
	if st, ok := s.stats.Get(ctx, id); ok {
		return st, nil
	}
	var st cache.UserStats
	var err error
	if st.Messages, err = s.messages.CountByUser(ctx, id); err != nil {
		return st, err
	}
	if st.Following, err = s.follows.CountFollowing(ctx, id); err != nil {
		return st, err
	}
	if st.Followers, err = s.follows.CountFollowers(ctx, id); err != nil {
		return st, err
	}
	if st.Likes, err = s.likes.CountByUser(ctx, id); err != nil {
		return st, err
	}
	s.stats.Set(ctx, id, st)
	return st, nil
}
