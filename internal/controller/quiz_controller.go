package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 测验列表
// @Tags 测验
// @Produce json
// @Param topic_id query int false "主题ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	quizzes, err := c.QuizService.List(util.OptionalUintQuery(ctx, "topic_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 搜索测验
// @Tags 测验
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes/search [get]
func (c *QuizController) Search(ctx *gin.Context) {
	quizzes, err := c.QuizService.Search(strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 测验详情
// @Description 登录用户会附带自己的尝试记录及剩余次数
// @Tags 测验
// @Produce json
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizDetail}
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Detail(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	detail, err := c.QuizService.Detail(id, util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 开始作答
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response "已达到最大尝试次数"
// @Router /api/quizzes/{id}/attempts [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	attempt, err := c.QuizService.StartAttempt(ctx.Request.Context(), util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary 获取作答题目
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Success 200 {object} util.Response{data=service.TakeView}
// @Router /api/attempts/{id} [get]
func (c *QuizController) Take(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	view, err := c.QuizService.Take(util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 提交单题作答
// @Description 同一题重复提交会覆盖之前的答案
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Param body body service.ResponseInput true "作答"
// @Success 200 {object} util.Response{data=service.ResponseResult}
// @Router /api/attempts/{id}/responses [post]
func (c *QuizController) SubmitResponse(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	var req service.ResponseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.QuizService.SubmitResponse(util.CurrentUserID(ctx), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 交卷
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/attempts/{id}/complete [post]
func (c *QuizController) Complete(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	result, err := c.QuizService.CompleteAttempt(ctx.Request.Context(), util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 作答结果
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/attempts/{id}/result [get]
func (c *QuizController) Result(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	result, err := c.QuizService.Result(util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 测验反馈
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Param body body service.QuizFeedbackInput true "反馈"
// @Success 200 {object} util.Response{data=model.QuizFeedback}
// @Router /api/attempts/{id}/feedback [post]
func (c *QuizController) Feedback(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	var req service.QuizFeedbackInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	feedback, err := c.QuizService.SubmitFeedback(util.CurrentUserID(ctx), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, feedback)
}
