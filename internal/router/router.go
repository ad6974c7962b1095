package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"CivicLink/internal/handler"
	"CivicLink/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/invitations/accept", handler.AcceptInvitation)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
	}

	// 引导向导路由，全部需要鉴权；控制台表单入口带 CSRF 防护
	onboarding := v1.Group("/onboarding")
	onboarding.Use(middleware.SessionMiddleware(), middleware.CSRFMiddleware(),
		middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		onboarding.GET("/progress", handler.GetOnboardingProgress)
		onboarding.PUT("/steps/:step_id", handler.SaveOnboardingStep)
		onboarding.POST("/advance", handler.AdvanceOnboarding)
		onboarding.POST("/back", handler.BackOnboarding)
		onboarding.POST("/skip", handler.SkipOnboarding)
		onboarding.POST("/complete", handler.CompleteOnboarding)
	}

	// 报障路由：提交和回执查询是匿名的，列表和处置需要鉴权
	reports := v1.Group("/reports")
	{
		reports.POST("", middleware.ReportSubmitRateLimitMiddleware(), handler.SubmitReport)
		reports.GET("/:public_id", handler.GetReport)

		reports.GET("", middleware.AuthMiddleware(), handler.ListReports)
		reports.PATCH("/:public_id", middleware.SessionMiddleware(), middleware.CSRFMiddleware(),
			middleware.AuthMiddleware(), handler.UpdateReport)
		reports.POST("/:public_id/resolve", middleware.SessionMiddleware(), middleware.CSRFMiddleware(),
			middleware.AuthMiddleware(), handler.ResolveReport)
	}

	// 滑块预验证，匿名
	verifications := v1.Group("/verifications")
	{
		verifications.POST("/slider", middleware.ReportSubmitRateLimitMiddleware(), handler.PreVerifySlider)
	}

	// 员工邀请路由
	invitations := v1.Group("/invitations")
	invitations.Use(middleware.SessionMiddleware(), middleware.CSRFMiddleware(), middleware.AuthMiddleware())
	{
		invitations.POST("/bulk", handler.BulkInvite)
	}

	// 公开透明度指标
	metrics := v1.Group("/metrics")
	{
		metrics.GET("/transparency", handler.GetTransparencyMetrics)
	}
}
