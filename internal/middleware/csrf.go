package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/csrf"
	"github.com/hertz-contrib/sessions"
	"github.com/hertz-contrib/sessions/cookie"

	"CivicLink/config"
)

// SessionMiddleware CSRF 校验依赖的 cookie session，必须挂在 CSRFMiddleware 之前
func SessionMiddleware() app.HandlerFunc {
	store := cookie.NewStore([]byte(config.Cfg.CSRFSecret))
	return sessions.New("csrf-session", store)
}

// CSRFMiddleware 员工控制台写操作的 CSRF 防护
// 只对浏览器 cookie 会话生效；Bearer 令牌请求不带可被跨站携带的凭证，直接放行
func CSRFMiddleware() app.HandlerFunc {
	return csrf.New(
		csrf.WithSecret(config.Cfg.SessionSecret),
		csrf.WithKeyLookUp("header:X-CSRF-TOKEN"),
		csrf.WithNext(func(ctx context.Context, c *app.RequestContext) bool {
			return strings.HasPrefix(string(c.GetHeader("Authorization")), "Bearer ")
		}),
	)
}
