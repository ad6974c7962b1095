package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CivicLink/internal/middleware"
	"CivicLink/internal/model/dto"
	"CivicLink/internal/service"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/response"
)

// Login 员工登录
// POST /v1/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().Login(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// AcceptInvitation 受邀员工激活账号
// POST /v1/auth/invitations/accept
func AcceptInvitation(ctx context.Context, c *app.RequestContext) {
	var req dto.AcceptInvitationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Auth().AcceptInvitation(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// Logout 注销
// POST /v1/auth/logout
func Logout(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	if err := service.Auth().Logout(ctx, staffID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
