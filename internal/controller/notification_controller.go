package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param unread query bool false "仅未读"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	unreadOnly := ctx.Query("unread") == "true"

	list, total, err := c.NotificationService.List(util.CurrentUserID(ctx), unreadOnly, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid notification id")
		return
	}
	if err := c.NotificationService.MarkRead(util.CurrentUserID(ctx), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	n, err := c.NotificationService.MarkAllRead(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": n})
}

// @Summary 未读数量
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	n, err := c.NotificationService.UnreadCount(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": n})
}

// @Summary 获取通知偏好
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Preference}
// @Router /api/preferences [get]
func (c *NotificationController) GetPreferences(ctx *gin.Context) {
	pref, err := c.NotificationService.GetPreferences(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pref)
}

// @Summary 修改通知偏好
// @Tags 通知
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.PreferenceInput true "偏好设置"
// @Success 200 {object} util.Response{data=model.Preference}
// @Router /api/preferences [put]
func (c *NotificationController) UpdatePreferences(ctx *gin.Context) {
	var req service.PreferenceInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	pref, err := c.NotificationService.UpdatePreferences(util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pref)
}
