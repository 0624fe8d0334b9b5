package controller

import (
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// @Summary 首页
// @Description 年级列表与推荐主题
// @Tags 课程目录
// @Produce json
// @Success 200 {object} util.Response{data=service.HomeView}
// @Router /api/home [get]
func (c *CatalogController) Home(ctx *gin.Context) {
	view, err := c.CatalogService.Home(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 年级列表
// @Tags 课程目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Grade}
// @Router /api/grades [get]
func (c *CatalogController) Grades(ctx *gin.Context) {
	grades, err := c.CatalogService.Grades(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// @Summary 主题列表
// @Tags 课程目录
// @Produce json
// @Param grade_id query int false "年级ID"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/topics [get]
func (c *CatalogController) Topics(ctx *gin.Context) {
	topics, err := c.CatalogService.Topics(ctx.Request.Context(), util.OptionalUintQuery(ctx, "grade_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 主题详情
// @Description 包含内容、媒体、公式、实验、先修主题、测验与仿真
// @Tags 课程目录
// @Produce json
// @Param slug path string true "主题 slug"
// @Success 200 {object} util.Response{data=service.TopicDetail}
// @Failure 404 {object} util.Response
// @Router /api/topics/{slug} [get]
func (c *CatalogController) TopicDetail(ctx *gin.Context) {
	detail, err := c.CatalogService.TopicBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 搜索主题
// @Tags 课程目录
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/topics/search [get]
func (c *CatalogController) SearchTopics(ctx *gin.Context) {
	topics, err := c.CatalogService.SearchTopics(strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 全局搜索
// @Description 同时搜索主题、测验与仿真
// @Tags 课程目录
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} util.Response{data=service.SearchResult}
// @Router /api/search [get]
func (c *CatalogController) Search(ctx *gin.Context) {
	result, err := c.CatalogService.Search(strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
