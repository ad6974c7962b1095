package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"CivicLink/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "VERIFICATION_SLIDER_REQUIRED", "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	case "UNAUTHORIZED", "CREDENTIALS_INVALID":
		return http.StatusUnauthorized // 401
	case "STAFF_INACTIVE":
		return http.StatusForbidden // 403
	case "ONBOARDING_NOT_FOUND", "REPORT_NOT_FOUND", "INVITATION_NOT_FOUND":
		return http.StatusNotFound // 404
	case "ONBOARDING_STEP_INVALID", "ONBOARDING_STEP_INCOMPLETE",
		"ONBOARDING_STEP_NOT_SKIPPABLE",
		"VERIFICATION_SLIDER_FAILED", "INVALID_REQUEST", "INVALID_USER_ID",
		"REPORT_CATEGORY_INVALID", "REPORT_STATUS_INVALID", "REPORT_TRANSITION_DENIED",
		"REPORT_PHONE_INVALID",
		"INVITATION_EMAIL_INVALID", "INVITATION_ROLE_INVALID", "INVITATION_LIST_EMPTY",
		"INVITATION_ALREADY_USED":
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	var details map[string]interface{}

	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
