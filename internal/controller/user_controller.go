package controller

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 获取个人资料
// @Description 用户信息、角色档案以及最近 10 条通知
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	view, err := c.UserService.Profile(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 修改个人资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileInput true "资料"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.UserService.UpdateProfile(util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 获取学习档案
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningProfile}
// @Router /api/profile/learning [get]
func (c *UserController) GetLearningProfile(ctx *gin.Context) {
	profile, err := c.UserService.LearningProfile(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 修改学习档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LearningProfileInput true "学习档案"
// @Success 200 {object} util.Response{data=model.LearningProfile}
// @Router /api/profile/learning [put]
func (c *UserController) UpdateLearningProfile(ctx *gin.Context) {
	var req service.LearningProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	profile, err := c.UserService.UpdateLearningProfile(util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 用户列表
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "角色"
// @Param keyword query string false "姓名或邮箱"
// @Param disabled query bool false "是否禁用"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	filter := repository.UserFilter{
		Role:    model.UserRole(ctx.Query("role")),
		Keyword: ctx.Query("keyword"),
		Page:    page,
		Limit:   limit,
	}
	if raw := ctx.Query("disabled"); raw != "" {
		disabled, err := strconv.ParseBool(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid disabled filter")
			return
		}
		filter.Disabled = &disabled
	}

	users, total, err := c.UserService.ListUsers(filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Page(ctx, users, total, page, limit)
}

type userStatusRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// @Summary 启用/禁用用户
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body userStatusRequest true "状态"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id}/status [put]
func (c *UserController) SetUserStatus(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	var req userStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.SetDisabled(util.CurrentUserID(ctx), id, *req.Disabled)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
