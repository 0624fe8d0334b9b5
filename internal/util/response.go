package util

import (
	"errors"
	"net/http"
	"physics_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Page(c *gin.Context, list interface{}, total int64, page, limit int) {
	Success(c, PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err))
	InternalServerError(c)
}

// HandleError 将业务错误映射为 HTTP 响应
func HandleError(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailRegistered):
		Conflict(c, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "Resource already exists")
	case errors.Is(err, ErrInvalidLogin), errors.Is(err, ErrUserDisabled):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case IsValidation(err):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
