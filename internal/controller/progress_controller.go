package controller

import (
	"errors"
	"io"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService  *service.ProgressService
	AnalyticsService *service.AnalyticsService
}

func NewProgressController(progressService *service.ProgressService, analyticsService *service.AnalyticsService) *ProgressController {
	return &ProgressController{ProgressService: progressService, AnalyticsService: analyticsService}
}

// bindOptionalJSON 允许空请求体
func bindOptionalJSON(ctx *gin.Context, v interface{}) bool {
	if err := ctx.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}

// @Summary 学习仪表盘
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardView}
// @Router /api/dashboard [get]
func (c *ProgressController) Dashboard(ctx *gin.Context) {
	view, err := c.ProgressService.Dashboard(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 学习分析
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AnalyticsView}
// @Router /api/analytics [get]
func (c *ProgressController) Analytics(ctx *gin.Context) {
	view, err := c.AnalyticsService.View(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 主题进度列表
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TopicProgress}
// @Router /api/progress [get]
func (c *ProgressController) ListProgress(ctx *gin.Context) {
	list, err := c.ProgressService.ListProgress(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 开始学习主题
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param topicId path int true "主题ID"
// @Success 200 {object} util.Response{data=model.TopicProgress}
// @Router /api/progress/{topicId}/start [post]
func (c *ProgressController) StartTopic(ctx *gin.Context) {
	topicID, ok := util.ParseIDParam(ctx, "topicId")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	progress, err := c.ProgressService.StartTopic(util.CurrentUserID(ctx), topicID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 更新主题进度
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param topicId path int true "主题ID"
// @Param body body service.ProgressUpdate true "进度"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Router /api/progress/{topicId} [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	topicID, ok := util.ParseIDParam(ctx, "topicId")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	var req service.ProgressUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.ProgressService.UpdateProgress(util.CurrentUserID(ctx), topicID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 完成主题
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param topicId path int true "主题ID"
// @Param body body service.CompleteTopicInput false "自评理解程度"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Router /api/progress/{topicId}/complete [post]
func (c *ProgressController) CompleteTopic(ctx *gin.Context) {
	topicID, ok := util.ParseIDParam(ctx, "topicId")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	var req service.CompleteTopicInput
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	result, err := c.ProgressService.CompleteTopic(util.CurrentUserID(ctx), topicID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 推荐主题
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/progress/recommended [get]
func (c *ProgressController) Recommended(ctx *gin.Context) {
	topics, err := c.ProgressService.Recommended(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 学习会话列表
// @Tags 学习会话
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=service.StudySessionPage}
// @Router /api/study-sessions [get]
func (c *ProgressController) ListStudySessions(ctx *gin.Context) {
	page, limit := util.Pagination(ctx)
	result, err := c.ProgressService.ListStudySessions(util.CurrentUserID(ctx), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 开始学习会话
// @Tags 学习会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StartStudyInput true "会话类型"
// @Success 201 {object} util.Response{data=model.StudySession}
// @Router /api/study-sessions [post]
func (c *ProgressController) StartStudySession(ctx *gin.Context) {
	var req service.StartStudyInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	session, err := c.ProgressService.StartStudySession(util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 结束学习会话
// @Tags 学习会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Param body body service.EndStudyInput false "学习总结"
// @Success 200 {object} util.Response{data=service.StudySessionResult}
// @Router /api/study-sessions/{id}/end [post]
func (c *ProgressController) EndStudySession(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid session id")
		return
	}
	var req service.EndStudyInput
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	result, err := c.ProgressService.EndStudySession(util.CurrentUserID(ctx), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 学习路径列表
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningPath}
// @Router /api/learning-paths [get]
func (c *ProgressController) ListPaths(ctx *gin.Context) {
	paths, err := c.ProgressService.ListPaths(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// @Summary 创建学习路径
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LearningPathInput true "学习路径"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Router /api/learning-paths [post]
func (c *ProgressController) CreatePath(ctx *gin.Context) {
	var req service.LearningPathInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.ProgressService.CreatePath(util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

// @Summary 修改学习路径
// @Description topicIds 为空数组时清空主题，不传时保持不变
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路径ID"
// @Param body body service.LearningPathInput true "学习路径"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Router /api/learning-paths/{id} [put]
func (c *ProgressController) UpdatePath(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid path id")
		return
	}
	var req service.LearningPathInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.ProgressService.UpdatePath(util.CurrentUserID(ctx), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// @Summary 删除学习路径
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路径ID"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/{id} [delete]
func (c *ProgressController) DeletePath(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid path id")
		return
	}
	if err := c.ProgressService.DeletePath(util.CurrentUserID(ctx), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
