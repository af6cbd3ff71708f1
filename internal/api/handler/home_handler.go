package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// Home 匿名看营销页，登录后看时间线（自己 + 关注对象，最近 100 条）
func (h *Handler) Home(c *gin.Context) {
	cu := middleware.CurrentUser(c)
	if cu == nil {
		h.render(c, http.StatusOK, "home_anon.html", nil)
		return
	}
	msgs, err := h.messages.Timeline(c.Request.Context(), cu.ID, 100)
	if err != nil {
		logger.Error("load timeline", zap.Int64("user_id", cu.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{"Messages": msgs})
}
