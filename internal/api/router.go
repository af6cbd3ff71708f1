package api

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/api/handler"
	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/web"
)

// NewRouter 组装仓库、服务与处理器；rdb 可为 nil（不启用计数缓存）
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	userRepo := repository.NewUserRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	var stats *cache.StatsCache
	if rdb != nil {
		stats = cache.NewStatsCache(rdb, time.Duration(cfg.Redis.StatsTTLSeconds)*time.Second)
	}

	userSvc := service.NewUserService(db, userRepo, msgRepo, followRepo, likeRepo, stats)
	msgSvc := service.NewMessageService(db, msgRepo, followRepo, stats)
	relSvc := service.NewRelationshipService(followRepo, stats)
	likeSvc := service.NewLikeService(db, likeRepo, msgRepo, stats)
	gate := service.NewGate()

	sessions := middleware.NewSessions(cfg)
	h := handler.New(userSvc, msgSvc, relSvc, likeSvc, gate, sessions)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		sessions.Resolve(userRepo),
	)

	r.GET("/", h.Home)

	r.GET("/signup", h.ShowSignup)
	r.POST("/signup", h.Signup)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", middleware.LoginRateLimit(rate.Every(time.Second), 10), h.Login)
	r.POST("/logout", h.Logout)

	users := r.Group("/users")
	{
		users.GET("", h.UserIndex)
		users.GET("/profile", h.ShowEditProfile)
		users.POST("/profile", h.EditProfile)
		users.POST("/delete", h.DeleteAccount)
		users.POST("/follow/:id", h.Follow)
		users.POST("/stop_following/:id", h.StopFollowing)
		users.POST("/add_like/:message_id", h.AddLike)
		users.GET("/:id", h.UserShow)
		users.GET("/:id/following", h.ShowFollowing)
		users.GET("/:id/followers", h.ShowFollowers)
		users.GET("/:id/likes", h.ShowLikes)
	}

	messages := r.Group("/messages")
	{
		messages.GET("/new", h.ShowNewMessage)
		messages.POST("/new", h.CreateMessage)
		messages.GET("/:id", h.MessageShow)
		messages.POST("/:id/delete", h.DeleteMessage)
	}

	return r
}
