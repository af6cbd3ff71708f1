package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
)

type messageForm struct {
	Text string `form:"text" binding:"required,max=140"`
}

// ShowNewMessage GET /messages/new
func (h *Handler) ShowNewMessage(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpPostMessage, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	h.render(c, http.StatusOK, "message_new.html", nil)
}

// CreateMessage POST /messages/new
func (h *Handler) CreateMessage(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpPostMessage, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	var form messageForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "message_new.html", nil)
		return
	}
	if _, err := h.messages.Post(c.Request.Context(), cu.ID, form.Text); err != nil {
		if errors.Is(err, service.ErrTextRequired) || errors.Is(err, service.ErrTextTooLong) {
			h.render(c, http.StatusOK, "message_new.html", nil)
			return
		}
		logger.Error("post message", zap.Int64("user_id", cu.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", cu.ID))
}

// MessageShow GET /messages/:id 需要会话；不存在的 id 重定向
func (h *Handler) MessageShow(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpViewMessage, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	m, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	h.render(c, http.StatusOK, "message_show.html", gin.H{"Message": m})
}

// DeleteMessage POST /messages/:id/delete 仅限消息所有者
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	m, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpDeleteMessage, service.Resource{OwnerID: m.UserID}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", cu.ID))
}
