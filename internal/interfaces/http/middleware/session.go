package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"text-rewriter-api/pkg/logger"
)

// SessionIDKey gin.Context 中保存会话 ID 的键
const SessionIDKey = "session_id"

// SessionConfig 会话 Cookie 配置
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session 为每个浏览器分配稳定的会话 ID
//
// Cookie 只携带随机 ID，表单内容保存在服务端会话存储中。
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "rewriter_session"
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
		}

		// 每次请求都续期
		maxAge := int(cfg.TTL.Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)

		c.Set(SessionIDKey, sessionID)
		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SessionID 读取当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
