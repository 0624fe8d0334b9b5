package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type SimulationController struct {
	SimulationService *service.SimulationService
}

func NewSimulationController(simulationService *service.SimulationService) *SimulationController {
	return &SimulationController{SimulationService: simulationService}
}

// @Summary 仿真列表
// @Tags 仿真
// @Produce json
// @Param topic_id query int false "主题ID"
// @Success 200 {object} util.Response{data=[]model.Simulation}
// @Router /api/simulations [get]
func (c *SimulationController) List(ctx *gin.Context) {
	sims, err := c.SimulationService.List(util.OptionalUintQuery(ctx, "topic_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sims)
}

// @Summary 搜索仿真
// @Tags 仿真
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} util.Response{data=[]model.Simulation}
// @Router /api/simulations/search [get]
func (c *SimulationController) Search(ctx *gin.Context) {
	sims, err := c.SimulationService.Search(strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sims)
}

// @Summary 仿真详情
// @Tags 仿真
// @Produce json
// @Param id path int true "仿真ID"
// @Success 200 {object} util.Response{data=service.SimulationDetail}
// @Router /api/simulations/{id} [get]
func (c *SimulationController) Detail(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid simulation id")
		return
	}
	detail, err := c.SimulationService.Detail(id, util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 开始仿真
// @Description 已有未完成会话时直接返回该会话
// @Tags 仿真
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "仿真ID"
// @Success 200 {object} util.Response{data=model.SimulationSession}
// @Router /api/simulations/{id}/sessions [post]
func (c *SimulationController) Start(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid simulation id")
		return
	}
	session, err := c.SimulationService.Start(util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 保存仿真参数
// @Tags 仿真
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Param body body object true "参数名到取值的映射"
// @Success 200 {object} util.Response{data=model.SimulationSession}
// @Router /api/simulation-sessions/{id}/parameters [put]
func (c *SimulationController) SaveParameters(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid session id")
		return
	}
	var values map[string]interface{}
	if err := ctx.ShouldBindJSON(&values); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	session, err := c.SimulationService.SaveParameters(util.CurrentUserID(ctx), id, values)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 完成仿真
// @Tags 仿真
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionCompletion}
// @Router /api/simulation-sessions/{id}/complete [post]
func (c *SimulationController) Complete(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid session id")
		return
	}
	result, err := c.SimulationService.Complete(util.CurrentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 仿真反馈
// @Tags 仿真
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Param body body service.SimulationFeedbackInput true "反馈"
// @Success 200 {object} util.Response{data=model.SimulationFeedback}
// @Router /api/simulation-sessions/{id}/feedback [post]
func (c *SimulationController) Feedback(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid session id")
		return
	}
	var req service.SimulationFeedbackInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	feedback, err := c.SimulationService.SubmitFeedback(util.CurrentUserID(ctx), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, feedback)
}
