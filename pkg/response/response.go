package response

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"go.uber.org/zap"

	"MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
)

// 统一响应格式：
//   成功 {"success": true, ...payload}
//   失败 {"success": false, "code": "...", "message": "..."}

func errorToHTTPStatus(def errors.Definition) int {
	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case errors.InvalidRequest.Code, errors.InvalidUserID.Code,
		errors.WellnessEntryInvalid.Code, errors.DateRangeInvalid.Code,
		errors.UserProfileInvalid.Code,
		errors.ChatMessageRequired.Code, errors.ChatMessageTooLong.Code:
		return http.StatusBadRequest // 400
	case errors.Unauthorized.Code:
		return http.StatusUnauthorized // 401
	case errors.UserNotFound.Code:
		return http.StatusNotFound // 404
	case errors.DuplicateSubmission.Code, errors.UserAlreadyExists.Code:
		return http.StatusConflict // 409
	case errors.TooManyRequests.Code:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应，非业务错误不向外暴露内部细节
func Error(ctx context.Context, c *app.RequestContext, err error) {
	var def errors.Definition
	if !stderrors.As(err, &def) {
		logger.Ctx(ctx).Error("Unhandled error reached response layer",
			zap.String("path", string(c.Path())),
			zap.Error(err),
		)
		def = errors.InternalError
	}

	c.JSON(errorToHTTPStatus(def), utils.H{
		"success": false,
		"code":    def.Code,
		"message": def.Message,
	})
}

// ErrorWithDetails 返回带详情的错误响应
func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	var def errors.Definition
	if !stderrors.As(err, &def) {
		def = errors.InternalError
	}

	c.JSON(errorToHTTPStatus(def), utils.H{
		"success": false,
		"code":    def.Code,
		"message": def.Message,
		"details": details,
	})
}

func Success(ctx context.Context, c *app.RequestContext, payload utils.H) {
	write(c, http.StatusOK, payload)
}

// Created 返回 201
func Created(ctx context.Context, c *app.RequestContext, payload utils.H) {
	write(c, http.StatusCreated, payload)
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, utils.H{
		"success": false,
		"code":    errors.InvalidRequest.Code,
		"message": err.Error(),
	})
}

func write(c *app.RequestContext, status int, payload utils.H) {
	body := make(utils.H, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	c.JSON(status, body)
}
