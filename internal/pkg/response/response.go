package response

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误，业务错误按 errors.Is 匹配，存储错误不向客户端暴露细节
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	if target, code := lookupBusinessError(err); target != nil {
		Fail(c, code, target.Error())
		return
	}

	log.ErrorContext(c.Request.Context(), "Error", "err", err)
	var pe *service.PersistenceError
	if errors.As(err, &pe) {
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, InternalServerError, err.Error())
}

// lookupBusinessError 找到对应的业务错误，未命中时 target 为 nil
func lookupBusinessError(err error) (target error, code int) {
	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			return target, code
		}
	}
	return nil, 0
}
