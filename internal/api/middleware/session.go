package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
)

// SessionCookie 会话 cookie 名；里面只放一个签名过的用户 id
const SessionCookie = "warbler_session"

const currentUserKey = "currentUser"

// Sessions 基于 JWT cookie 的会话管理
type Sessions struct {
	secret []byte
	maxAge time.Duration
}

func NewSessions(cfg *config.Config) *Sessions {
	return &Sessions{
		secret: []byte(cfg.Session.Secret),
		maxAge: time.Duration(cfg.Session.MaxAgeSec) * time.Second,
	}
}

// Issue 登录成功后签发会话 cookie
func (s *Sessions) Issue(c *gin.Context, userID int64) error {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.maxAge)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	c.SetCookie(SessionCookie, token, int(s.maxAge.Seconds()), "/", "", false, true)
	return nil
}

// Clear 登出
func (s *Sessions) Clear(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// Resolve 每个请求解析会话并加载当前用户；无会话或会话失效时继续匿名
func (s *Sessions) Resolve(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			s.Clear(c)
			c.Next()
			return
		}
		claims := token.Claims.(*jwt.RegisteredClaims)
		uid, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			s.Clear(c)
			c.Next()
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			// 用户已被删除等情况，会话作废
			s.Clear(c)
			c.Next()
			return
		}
		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser 当前登录用户；匿名时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// CallerOf 把会话状态折算成鉴权用的 Caller
func CallerOf(c *gin.Context) service.Caller {
	if u := CurrentUser(c); u != nil {
		return service.Caller{UserID: u.ID}
	}
	return service.Caller{}
}
