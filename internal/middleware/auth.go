package middleware

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"CivicLink/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
)

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

func initAuthMiddleware() error {
	// 使用 token 包中共享的生成器
	sharedGenerator := token.GetGenerator()
	if sharedGenerator == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	// 基于共享生成器创建 middleware，补充 HTTP 侧配置
	var err error
	authMiddleware, err = jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "CivicLink API",
		Key:         sharedGenerator.Key,
		Timeout:     sharedGenerator.Timeout,
		MaxRefresh:  sharedGenerator.MaxRefresh,
		IdentityKey: sharedGenerator.IdentityKey,
		TimeFunc:    sharedGenerator.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			uid, ok := claims[IdentityKey].(string)
			if !ok {
				if uidFloat, ok := claims[IdentityKey].(float64); ok {
					uid = fmt.Sprintf("%.0f", uidFloat)
				} else {
					return nil
				}
			}
			return uid
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "UNAUTHORIZED",
					"message": message,
				},
			})
		},

		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetStaffID 从请求上下文中获取员工 ID（public_id，字符串格式）
func GetStaffID(ctx context.Context, c *app.RequestContext) (string, bool) {
	staffID, exists := c.Get(IdentityKey)
	if !exists {
		return "", false
	}

	id, ok := staffID.(string)
	if !ok {
		return "", false
	}

	return id, true
}
