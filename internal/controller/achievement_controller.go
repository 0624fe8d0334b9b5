package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 成就列表
// @Description 全部启用的成就及当前用户的获得情况
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.AchievementView}
// @Router /api/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	list, err := c.AchievementService.ListForUser(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 我的成就
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserAchievement}
// @Router /api/achievements/mine [get]
func (c *AchievementController) Mine(ctx *gin.Context) {
	list, err := c.AchievementService.UserAchievements(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 成就管理列表
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/admin/achievements [get]
func (c *AchievementController) AdminList(ctx *gin.Context) {
	list, err := c.AchievementService.ListAll()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建成就
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AchievementInput true "成就"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Router /api/admin/achievements [post]
func (c *AchievementController) Create(ctx *gin.Context) {
	var req service.AchievementInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AchievementService.Create(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 修改成就
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "成就ID"
// @Param body body service.AchievementInput true "成就"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Router /api/admin/achievements/{id} [put]
func (c *AchievementController) Update(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid achievement id")
		return
	}
	var req service.AchievementInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AchievementService.Update(id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary 删除成就
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "成就ID"
// @Success 200 {object} util.Response
// @Router /api/admin/achievements/{id} [delete]
func (c *AchievementController) Delete(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid achievement id")
		return
	}
	if err := c.AchievementService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
