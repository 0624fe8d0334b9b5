package controller

import (
	"fmt"
	"net/http"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

func sendReport(ctx *gin.Context, report *service.Report) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	ctx.Data(http.StatusOK, xlsxMimeType, report.Data)
}

// @Summary 导出测验作答记录
// @Tags 教师报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {file} file
// @Router /api/teacher/reports/quizzes/{id}/attempts [get]
func (c *ReportController) QuizAttempts(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	report, err := c.ReportService.QuizAttempts(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	sendReport(ctx, report)
}

// @Summary 导出学习者统计
// @Tags 教师报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Router /api/teacher/reports/learners [get]
func (c *ReportController) LearnerAnalytics(ctx *gin.Context) {
	report, err := c.ReportService.LearnerAnalytics()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	sendReport(ctx, report)
}
