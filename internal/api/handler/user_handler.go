package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// UserIndex 用户列表，支持 ?q= 用户名子串搜索
func (h *Handler) UserIndex(c *gin.Context) {
	q := c.Query("q")
	users, err := h.users.Search(c.Request.Context(), q)
	if err != nil {
		logger.Error("search users", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	h.render(c, http.StatusOK, "users_index.html", gin.H{"Users": users, "Query": q})
}

// UserShow 公开个人页：资料 + 四个计数器 + 消息列表
func (h *Handler) UserShow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	profile, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data, err := h.profileData(c, profile)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	msgs, err := h.messages.ListByUser(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data["Messages"] = msgs
	if cu := middleware.CurrentUser(c); cu != nil && cu.ID != id {
		following, err := h.rels.IsFollowing(c.Request.Context(), cu.ID, id)
		if err != nil {
			c.String(http.StatusInternalServerError, "something went wrong")
			return
		}
		data["IsFollowing"] = following
	}
	h.render(c, http.StatusOK, "user_show.html", data)
}

// ShowFollowing 关注列表，只有本人可看
func (h *Handler) ShowFollowing(c *gin.Context) {
	h.showFollowList(c, service.OpViewFollowing, "following.html", h.rels.ListFollowing)
}

// ShowFollowers 粉丝列表，只有本人可看
func (h *Handler) ShowFollowers(c *gin.Context) {
	h.showFollowList(c, service.OpViewFollowers, "followers.html", h.rels.ListFollowers)
}

func (h *Handler) showFollowList(c *gin.Context, op service.Operation, tmpl string,
	list func(ctx context.Context, userID int64) ([]*model.User, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err := h.gate.Authorize(middleware.CallerOf(c), op, service.Resource{OwnerID: id}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	profile, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	users, err := list(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data, err := h.profileData(c, profile)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data["Users"] = users
	h.render(c, http.StatusOK, tmpl, data)
}

// ShowLikes 点赞过的消息
func (h *Handler) ShowLikes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpViewLikes, service.Resource{OwnerID: id}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	profile, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	msgs, err := h.likes.ListLiked(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data, err := h.profileData(c, profile)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	data["Messages"] = msgs
	h.render(c, http.StatusOK, "likes.html", data)
}

// Follow POST /users/follow/:id
func (h *Handler) Follow(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpFollow, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err := h.rels.Follow(c.Request.Context(), cu.ID, id); err != nil {
		if errors.Is(err, service.ErrFollowSelf) {
			middleware.Flash(c, "danger", "You cannot follow yourself.")
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", cu.ID))
}

// StopFollowing POST /users/stop_following/:id
func (h *Handler) StopFollowing(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpUnfollow, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err := h.rels.Unfollow(c.Request.Context(), cu.ID, id); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", cu.ID))
}

// AddLike POST /users/add_like/:message_id 点赞开关
func (h *Handler) AddLike(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpToggleLike, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	id, ok := paramID(c, "message_id")
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if _, err := h.likes.Toggle(c.Request.Context(), cu.ID, id); err != nil {
		switch {
		case repository.IsNotFound(err):
			c.Redirect(http.StatusFound, "/")
		case errors.Is(err, service.ErrLikeOwnMessage):
			middleware.Flash(c, "danger", "You cannot like your own warble.")
			c.Redirect(http.StatusFound, "/")
		default:
			c.String(http.StatusInternalServerError, "something went wrong")
		}
		return
	}
	back := c.Request.Referer()
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusFound, back)
}

// ShowEditProfile GET /users/profile
func (h *Handler) ShowEditProfile(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpEditProfile, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	data, err := h.profileData(c, cu)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	h.render(c, http.StatusOK, "profile_edit.html", data)
}

type profileForm struct {
	Username       string `form:"username"`
	Email          string `form:"email"`
	ImageURL       string `form:"image_url"`
	HeaderImageURL string `form:"header_image_url"`
	Location       string `form:"location"`
	Bio            string `form:"bio"`
	Password       string `form:"password" binding:"required"`
}

// EditProfile POST /users/profile 需要密码确认
func (h *Handler) EditProfile(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpEditProfile, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.Flash(c, "danger", "Wrong password, please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if _, ok, err := h.users.Authenticate(c.Request.Context(), cu.Username, form.Password); err != nil || !ok {
		middleware.Flash(c, "danger", "Wrong password, please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if form.Username != "" {
		cu.Username = form.Username
	}
	if form.Email != "" {
		cu.Email = form.Email
	}
	if form.ImageURL != "" {
		cu.ImageURL = form.ImageURL
	}
	if form.HeaderImageURL != "" {
		cu.HeaderImageURL = form.HeaderImageURL
	}
	cu.Location = form.Location
	cu.Bio = form.Bio
	if err := h.users.UpdateProfile(c.Request.Context(), cu); err != nil {
		if repository.IsIntegrityError(err) {
			middleware.Flash(c, "danger", "Username already taken")
			c.Redirect(http.StatusFound, "/users/profile")
			return
		}
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", cu.ID))
}

// DeleteAccount POST /users/delete 级联删除消息、关注边与点赞
func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.gate.Authorize(middleware.CallerOf(c), service.OpDeleteAccount, service.Resource{}); err != nil {
		h.denyUnauthorized(c)
		return
	}
	cu := middleware.CurrentUser(c)
	if err := h.users.Delete(c.Request.Context(), cu.ID); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/signup")
}

// profileData 个人页公共数据：资料 + 计数器
func (h *Handler) profileData(c *gin.Context, profile *model.User) (gin.H, error) {
	stats, err := h.users.Stats(c.Request.Context(), profile.ID)
	if err != nil {
		return nil, err
	}
	return gin.H{"Profile": profile, "Stats": stats}, nil
}
