package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册学生、教师或家长账号，并自动创建角色档案与通知偏好
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "用户注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
