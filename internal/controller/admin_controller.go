package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 课程内容后台管理
type AdminController struct {
	CatalogAdmin    *service.CatalogAdminService
	Media           *service.MediaService
	QuizAdmin       *service.QuizAdminService
	SimulationAdmin *service.SimulationAdminService
}

func NewAdminController(
	catalogAdmin *service.CatalogAdminService,
	media *service.MediaService,
	quizAdmin *service.QuizAdminService,
	simulationAdmin *service.SimulationAdminService,
) *AdminController {
	return &AdminController{
		CatalogAdmin:    catalogAdmin,
		Media:           media,
		QuizAdmin:       quizAdmin,
		SimulationAdmin: simulationAdmin,
	}
}

// @Summary 创建年级
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GradeInput true "年级"
// @Success 201 {object} util.Response{data=model.Grade}
// @Router /api/admin/grades [post]
func (c *AdminController) CreateGrade(ctx *gin.Context) {
	var req service.GradeInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	grade, err := c.CatalogAdmin.CreateGrade(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, grade)
}

// @Summary 修改年级
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "年级ID"
// @Param body body service.GradeInput true "年级"
// @Success 200 {object} util.Response{data=model.Grade}
// @Router /api/admin/grades/{id} [put]
func (c *AdminController) UpdateGrade(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid grade id")
		return
	}
	var req service.GradeInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	grade, err := c.CatalogAdmin.UpdateGrade(ctx.Request.Context(), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grade)
}

// @Summary 删除年级
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "年级ID"
// @Success 200 {object} util.Response
// @Router /api/admin/grades/{id} [delete]
func (c *AdminController) DeleteGrade(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid grade id")
		return
	}
	if err := c.CatalogAdmin.DeleteGrade(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 主题管理列表
// @Description 包含未启用的主题
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param grade_id query int false "年级ID"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/admin/topics [get]
func (c *AdminController) ListTopics(ctx *gin.Context) {
	topics, err := c.CatalogAdmin.ListTopics(util.OptionalUintQuery(ctx, "grade_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 创建主题
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TopicInput true "主题"
// @Success 201 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics [post]
func (c *AdminController) CreateTopic(ctx *gin.Context) {
	var req service.TopicInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	topic, err := c.CatalogAdmin.CreateTopic(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// @Summary 修改主题
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param body body service.TopicInput true "主题"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics/{id} [put]
func (c *AdminController) UpdateTopic(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	var req service.TopicInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	topic, err := c.CatalogAdmin.UpdateTopic(ctx.Request.Context(), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 删除主题
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/admin/topics/{id} [delete]
func (c *AdminController) DeleteTopic(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	if err := c.CatalogAdmin.DeleteTopic(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// resourceIDs 解析主题ID和可选的资源ID
func resourceIDs(ctx *gin.Context) (topicID, resourceID uint, ok bool) {
	topicID, ok = util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return 0, 0, false
	}
	if ctx.Param("resourceId") == "" {
		return topicID, 0, true
	}
	resourceID, ok = util.ParseIDParam(ctx, "resourceId")
	if !ok {
		util.BadRequest(ctx, "invalid resource id")
		return 0, 0, false
	}
	return topicID, resourceID, true
}

func respondSaved(ctx *gin.Context, resourceID uint, data interface{}) {
	if resourceID == 0 {
		util.Created(ctx, data)
		return
	}
	util.Success(ctx, data)
}

// @Summary 保存主题内容
// @Description 无 resourceId 时新建
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param resourceId path int false "内容ID"
// @Param body body service.ContentInput true "内容"
// @Success 200 {object} util.Response{data=model.TopicContent}
// @Router /api/admin/topics/{id}/contents/{resourceId} [put]
func (c *AdminController) SaveContent(ctx *gin.Context) {
	topicID, resourceID, ok := resourceIDs(ctx)
	if !ok {
		return
	}
	var req service.ContentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.CatalogAdmin.SaveContent(ctx.Request.Context(), topicID, resourceID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	respondSaved(ctx, resourceID, content)
}

// @Summary 保存公式
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param resourceId path int false "公式ID"
// @Param body body service.FormulaInput true "公式"
// @Success 200 {object} util.Response{data=model.TopicFormula}
// @Router /api/admin/topics/{id}/formulas/{resourceId} [put]
func (c *AdminController) SaveFormula(ctx *gin.Context) {
	topicID, resourceID, ok := resourceIDs(ctx)
	if !ok {
		return
	}
	var req service.FormulaInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	formula, err := c.CatalogAdmin.SaveFormula(ctx.Request.Context(), topicID, resourceID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	respondSaved(ctx, resourceID, formula)
}

// @Summary 保存实验
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param resourceId path int false "实验ID"
// @Param body body service.ExperimentInput true "实验"
// @Success 200 {object} util.Response{data=model.TopicExperiment}
// @Router /api/admin/topics/{id}/experiments/{resourceId} [put]
func (c *AdminController) SaveExperiment(ctx *gin.Context) {
	topicID, resourceID, ok := resourceIDs(ctx)
	if !ok {
		return
	}
	var req service.ExperimentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	experiment, err := c.CatalogAdmin.SaveExperiment(ctx.Request.Context(), topicID, resourceID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	respondSaved(ctx, resourceID, experiment)
}

// @Summary 上传主题媒体
// @Tags 管理员
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param file formData file true "媒体文件"
// @Param title formData string true "标题"
// @Param mediaType formData string false "image/video/animation/diagram/audio"
// @Success 201 {object} util.Response{data=model.TopicMedia}
// @Router /api/admin/topics/{id}/media [post]
func (c *AdminController) UploadMedia(ctx *gin.Context) {
	topicID, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid topic id")
		return
	}
	var req service.MediaInput
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	media, err := c.Media.Upload(ctx.Request.Context(), topicID, &req, header)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, media)
}

// DeleteResource 删除指定种类的主题资源
// @Summary 删除主题资源
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param resourceId path int true "资源ID"
// @Success 200 {object} util.Response
// @Router /api/admin/topics/{id}/contents/{resourceId} [delete]
func (c *AdminController) DeleteResource(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		topicID, resourceID, ok := resourceIDs(ctx)
		if !ok {
			return
		}
		if err := c.CatalogAdmin.DeleteResource(ctx.Request.Context(), kind, topicID, resourceID); err != nil {
			util.HandleError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"deleted": true})
	}
}

// @Summary 测验管理列表
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param topic_id query int false "主题ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/admin/quizzes [get]
func (c *AdminController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizAdmin.List(util.OptionalUintQuery(ctx, "topic_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 测验详情（含答案）
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [get]
func (c *AdminController) GetQuiz(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	quiz, err := c.QuizAdmin.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 创建测验
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizInput true "测验及题目"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *AdminController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizAdmin.Create(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary 修改测验
// @Description 题目整体替换
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param body body service.QuizInput true "测验及题目"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [put]
func (c *AdminController) UpdateQuiz(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizAdmin.Update(id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 删除测验
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *AdminController) DeleteQuiz(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	if err := c.QuizAdmin.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 模拟管理列表
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param topic_id query int false "主题ID"
// @Success 200 {object} util.Response{data=[]model.Simulation}
// @Router /api/admin/simulations [get]
func (c *AdminController) ListSimulations(ctx *gin.Context) {
	sims, err := c.SimulationAdmin.List(util.OptionalUintQuery(ctx, "topic_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sims)
}

// @Summary 模拟详情
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模拟ID"
// @Success 200 {object} util.Response{data=model.Simulation}
// @Router /api/admin/simulations/{id} [get]
func (c *AdminController) GetSimulation(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid simulation id")
		return
	}
	sim, err := c.SimulationAdmin.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sim)
}

// @Summary 创建模拟
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SimulationInput true "模拟及参数"
// @Success 201 {object} util.Response{data=model.Simulation}
// @Router /api/admin/simulations [post]
func (c *AdminController) CreateSimulation(ctx *gin.Context) {
	var req service.SimulationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sim, err := c.SimulationAdmin.Create(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, sim)
}

// @Summary 修改模拟
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模拟ID"
// @Param body body service.SimulationInput true "模拟及参数"
// @Success 200 {object} util.Response{data=model.Simulation}
// @Router /api/admin/simulations/{id} [put]
func (c *AdminController) UpdateSimulation(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid simulation id")
		return
	}
	var req service.SimulationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sim, err := c.SimulationAdmin.Update(id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sim)
}

// @Summary 删除模拟
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模拟ID"
// @Success 200 {object} util.Response
// @Router /api/admin/simulations/{id} [delete]
func (c *AdminController) DeleteSimulation(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid simulation id")
		return
	}
	if err := c.SimulationAdmin.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
