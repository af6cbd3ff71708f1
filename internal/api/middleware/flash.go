package middleware

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "warbler_flash"
	flashCtxKey = "pendingFlashes"
)

// FlashMessage 一次性提示，跨一次重定向
type FlashMessage struct {
	Category string `json:"category"` // success / danger
	Text     string `json:"text"`
}

// Flash 追加一条提示。同请求内渲染时立即可见；
// 重定向时通过 cookie 带到下一个请求。
func Flash(c *gin.Context, category, text string) {
	msgs := contextFlashes(c)
	msgs = append(msgs, FlashMessage{Category: category, Text: text})
	c.Set(flashCtxKey, msgs)

	payload, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetCookie(flashCookie, base64.URLEncoding.EncodeToString(payload), 60, "/", "", false, true)
}

// TakeFlashes 读出并清空全部提示（上个请求遗留的 + 本请求新增的）
func TakeFlashes(c *gin.Context) []FlashMessage {
	msgs := append(cookieFlashes(c), contextFlashes(c)...)
	if len(msgs) > 0 {
		c.Set(flashCtxKey, []FlashMessage(nil))
		// 后写的同名 cookie 生效，覆盖 Flash 设置的那个
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	return msgs
}

func contextFlashes(c *gin.Context) []FlashMessage {
	if v, ok := c.Get(flashCtxKey); ok {
		if msgs, ok := v.([]FlashMessage); ok {
			return msgs
		}
	}
	return nil
}

func cookieFlashes(c *gin.Context) []FlashMessage {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	payload, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []FlashMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		return nil
	}
	return msgs
}
