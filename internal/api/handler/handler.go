package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/service"
)

// Handler 汇聚全部页面处理器
type Handler struct {
	users    service.UserService
	messages service.MessageService
	rels     service.RelationshipService
	likes    service.LikeService
	gate     service.Gate
	sessions *middleware.Sessions
}

func New(users service.UserService, messages service.MessageService, rels service.RelationshipService,
	likes service.LikeService, gate service.Gate, sessions *middleware.Sessions) *Handler {
	return &Handler{users: users, messages: messages, rels: rels, likes: likes, gate: gate, sessions: sessions}
}

// render 统一补齐导航/提示所需的公共字段
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Flashes"] = middleware.TakeFlashes(c)
	c.HTML(code, name, data)
}

// denyUnauthorized 鉴权拒绝的统一出口：提示 + 回首页，无任何副作用
func (h *Handler) denyUnauthorized(c *gin.Context) {
	middleware.Flash(c, "danger", "Access unauthorized.")
	c.Redirect(http.StatusFound, "/")
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
