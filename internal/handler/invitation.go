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

// BulkInvite 批量邀请员工，与向导状态无关
// POST /v1/invitations/bulk
func BulkInvite(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	var req dto.BulkInvitationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Invitation().BulkInvite(ctx, staffID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}
