package service

import "errors"

// ErrUnauthorized 鉴权拒绝：控制流结果，不是异常；拒绝即无副作用
var ErrUnauthorized = errors.New("access unauthorized")

// Caller 请求方身份；UserID 为 0 表示匿名
type Caller struct {
	UserID int64
}

func (c Caller) Anonymous() bool { return c.UserID == 0 }

// Operation 数据模型之上的受控操作
type Operation int

const (
	OpViewProfile Operation = iota + 1
	OpViewUserIndex
	OpViewMessage
	OpPostMessage
	OpDeleteMessage
	OpToggleLike
	OpFollow
	OpUnfollow
	OpViewFollowing
	OpViewFollowers
	OpViewLikes
	OpEditProfile
	OpDeleteAccount
)

// Resource 被操作资源的归属；无归属的操作传零值
type Resource struct {
	OwnerID int64
}

// Gate 在调用数据模型前做允许/拒绝判定
type Gate struct{}

func NewGate() Gate { return Gate{} }

// Authorize 返回 nil 表示放行，ErrUnauthorized 表示拒绝
func (Gate) Authorize(caller Caller, op Operation, res Resource) error {
	switch op {
	case OpViewProfile, OpViewUserIndex:
		// 公开页面，匿名可看
		return nil
	case OpViewMessage, OpPostMessage, OpToggleLike, OpFollow, OpUnfollow, OpEditProfile, OpDeleteAccount:
		if caller.Anonymous() {
			return ErrUnauthorized
		}
		return nil
	case OpDeleteMessage:
		// 只能删自己的消息
		if caller.Anonymous() || caller.UserID != res.OwnerID {
			return ErrUnauthorized
		}
		return nil
	case OpViewFollowing, OpViewFollowers, OpViewLikes:
		// 只有本人能看自己的关注/粉丝列表
		if caller.Anonymous() || caller.UserID != res.OwnerID {
			return ErrUnauthorized
		}
		return nil
	}
	return ErrUnauthorized
}
