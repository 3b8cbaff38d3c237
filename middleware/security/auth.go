package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtlib "talentlink/tools/security"
	errs "talentlink/tools/errs"
)

// Context keys. 后续 handler 统一用这个 key 读取解码出来的用户ID。
const (
	CtxUserIDKey = "authUserID" // string
)

type Options struct {
	Secret []byte

	HeaderToken               string // 默认 "authorization"
	EnableAuthorizationBearer bool   // 默认 true
}

func DefaultOptions(secret []byte) *Options {
	return &Options{
		Secret:                    secret,
		HeaderToken:               "authorization",
		EnableAuthorizationBearer: true,
	}
}

// Middleware 解码访问令牌并把 userId 写入请求上下文。
// 令牌缺失/非法 ⇒ 401，响应里不体现任何资源是否存在的信息。
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token = strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		// 兼容 Authorization: Bearer xxx
		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		userID, err := jwtlib.Decode(jwtlib.DefaultOptions(opts.Secret), token)
		if err != nil {
			if errs.CodeOf(err) == errs.TokenExpiredError {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// AuthedUser reads the decoded user id set by Middleware.
func AuthedUser(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// RequireActor 比对令牌归属与请求声称的操作者；不一致 ⇒ Unauthorized。
func RequireActor(c *gin.Context, actorID string) error {
	if actorID == "" {
		return errs.ErrArgs.WrapMsg("actor id required")
	}
	if AuthedUser(c) != actorID {
		return errs.ErrNoPermission.Wrap()
	}
	return nil
}
