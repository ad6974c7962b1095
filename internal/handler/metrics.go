package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CivicLink/internal/model/dto"
	"CivicLink/internal/service"
	"CivicLink/pkg/response"
)

// GetTransparencyMetrics 公开透明度指标
// GET /v1/metrics/transparency
func GetTransparencyMetrics(ctx context.Context, c *app.RequestContext) {
	var query dto.TransparencyQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Metrics().Transparency(ctx, query.MunicipalityCode)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}
