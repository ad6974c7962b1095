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

// GetOnboardingProgress 获取当前机构的引导进度
// GET /v1/onboarding/progress
func GetOnboardingProgress(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Onboarding().GetProgress(ctx, staffID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// SaveOnboardingStep 保存步骤表单草稿，幂等
// PUT /v1/onboarding/steps/:step_id
func SaveOnboardingStep(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	stepID := c.Param("step_id")

	var req dto.SaveStepRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Onboarding().SaveStepDraft(ctx, staffID, stepID, req.StepData)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// AdvanceOnboarding 下一步
// POST /v1/onboarding/advance
func AdvanceOnboarding(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Onboarding().Advance(ctx, staffID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// BackOnboarding 上一步
// POST /v1/onboarding/back
func BackOnboarding(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Onboarding().Back(ctx, staffID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// SkipOnboarding 跳过当前步骤
// POST /v1/onboarding/skip
func SkipOnboarding(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Onboarding().Skip(ctx, staffID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// CompleteOnboarding 完成引导
// POST /v1/onboarding/complete
func CompleteOnboarding(ctx context.Context, c *app.RequestContext) {
	staffID, ok := middleware.GetStaffID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	data, err := service.Onboarding().Complete(ctx, staffID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
