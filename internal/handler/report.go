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

// SubmitReport 市民提交报障，匿名接口
// POST /v1/reports
func SubmitReport(ctx context.Context, c *app.RequestContext) {
	var req dto.SubmitReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Report().Submit(ctx, &req, c.ClientIP())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, data)
}

// PreVerifySlider 滑块预验证，通过后签发一次性通行 token
// POST /v1/verifications/slider
func PreVerifySlider(ctx context.Context, c *app.RequestContext) {
	var req dto.SliderVerifyRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Report().PreVerifySlider(ctx, &req, c.ClientIP())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetReport 市民按回执号查询报障
// GET /v1/reports/:public_id
func GetReport(ctx context.Context, c *app.RequestContext) {
	publicID := c.Param("public_id")

	data, err := service.Report().Get(ctx, publicID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// ListReports 员工侧报障列表，游标分页
// GET /v1/reports
func ListReports(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	var query dto.ReportListQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Report().List(ctx, staffID, &query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// UpdateReport 员工分派/状态更新
// PATCH /v1/reports/:public_id
func UpdateReport(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	publicID := c.Param("public_id")

	var req dto.UpdateReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Report().Update(ctx, staffID, publicID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// ResolveReport 结案
// POST /v1/reports/:public_id/resolve
func ResolveReport(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	publicID := c.Param("public_id")

	var req dto.ResolveReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Report().Resolve(ctx, staffID, publicID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
