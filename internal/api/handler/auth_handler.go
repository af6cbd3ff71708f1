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

type signupForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password"`
	ImageURL string `form:"image_url"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) ShowSignup(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.html", nil)
}

// Signup 注册；用户名/邮箱重复由存储层唯一键拦下
func (h *Handler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "signup.html", gin.H{"Username": form.Username, "Email": form.Email})
		return
	}
	u, err := h.users.Signup(c.Request.Context(), form.Username, form.Email, form.Password, form.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrPasswordRequired) || repository.IsIntegrityError(err) {
			middleware.Flash(c, "danger", "Username already taken")
			h.render(c, http.StatusOK, "signup.html", gin.H{"Username": form.Username, "Email": form.Email})
			return
		}
		logger.Error("signup", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	if err := h.sessions.Issue(c, u.ID); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

// Login 认证失败停留在登录页（匿名状态不变）
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "login.html", gin.H{"Username": form.Username})
		return
	}
	u, ok, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		logger.Error("authenticate", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	if !ok {
		middleware.Flash(c, "danger", "Invalid credentials.")
		h.render(c, http.StatusOK, "login.html", gin.H{"Username": form.Username})
		return
	}
	if err := h.sessions.Issue(c, u.ID); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	middleware.Flash(c, "success", fmt.Sprintf("Hello, %s!", u.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	middleware.Flash(c, "success", "You have successfully logged out.")
	c.Redirect(http.StatusFound, "/login")
}
