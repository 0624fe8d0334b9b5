package app

import (
	"physics_edu_backend/docs"
	"physics_edu_backend/internal/middleware"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	secret := a.Config.JWT.Secret

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(secret))
	a.registerPublicRoutes(public, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(secret), middleware.ActivityMiddleware(repos.user))
	a.registerStudentRoutes(authGroup, c)

	// 3. 教师/管理员
	staff := router.Group("/api")
	staff.Use(
		middleware.AuthMiddleware(secret),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Teacher, model.Admin),
	)
	a.registerStaffRoutes(staff, c)

	// 4. 仅管理员
	adminOnly := router.Group("/api/admin")
	adminOnly.Use(middleware.AuthMiddleware(secret), middleware.RoleMiddleware(model.Admin))
	{
		adminOnly.GET("/users", c.user.ListUsers)
		adminOnly.PUT("/users/:id/status", c.user.SetUserStatus)
	}
}

func (a *App) registerPublicRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/health", c.health.HealthCheck)
	rg.POST("/auth/register", c.auth.Register)
	rg.POST("/auth/login", c.auth.Login)

	// 课程目录
	rg.GET("/home", c.catalog.Home)
	rg.GET("/grades", c.catalog.Grades)
	rg.GET("/topics", c.catalog.Topics)
	rg.GET("/topics/search", c.catalog.SearchTopics)
	rg.GET("/topics/:slug", c.catalog.TopicDetail)
	rg.GET("/search", c.catalog.Search)

	// 登录后详情会附带个人记录
	rg.GET("/quizzes", c.quiz.List)
	rg.GET("/quizzes/search", c.quiz.Search)
	rg.GET("/quizzes/:id", c.quiz.Detail)
	rg.GET("/simulations", c.simulation.List)
	rg.GET("/simulations/search", c.simulation.Search)
	rg.GET("/simulations/:id", c.simulation.Detail)
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.GET("/profile/learning", c.user.GetLearningProfile)
	rg.PUT("/profile/learning", c.user.UpdateLearningProfile)

	rg.GET("/notifications", c.notification.List)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.PUT("/notifications/read-all", c.notification.MarkAllRead)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)
	rg.GET("/preferences", c.notification.GetPreferences)
	rg.PUT("/preferences", c.notification.UpdatePreferences)

	// 测验作答
	rg.POST("/quizzes/:id/attempts", c.quiz.StartAttempt)
	rg.GET("/attempts/:id", c.quiz.Take)
	rg.POST("/attempts/:id/responses", c.quiz.SubmitResponse)
	rg.POST("/attempts/:id/complete", c.quiz.Complete)
	rg.GET("/attempts/:id/result", c.quiz.Result)
	rg.POST("/attempts/:id/feedback", c.quiz.Feedback)

	// 模拟实验
	rg.POST("/simulations/:id/sessions", c.simulation.Start)
	rg.PUT("/simulation-sessions/:id/parameters", c.simulation.SaveParameters)
	rg.POST("/simulation-sessions/:id/complete", c.simulation.Complete)
	rg.POST("/simulation-sessions/:id/feedback", c.simulation.Feedback)

	// 学习进度
	rg.GET("/dashboard", c.progress.Dashboard)
	rg.GET("/analytics", c.progress.Analytics)
	rg.GET("/progress", c.progress.ListProgress)
	rg.GET("/progress/recommended", c.progress.Recommended)
	rg.POST("/progress/:topicId/start", c.progress.StartTopic)
	rg.PUT("/progress/:topicId", c.progress.UpdateProgress)
	rg.POST("/progress/:topicId/complete", c.progress.CompleteTopic)

	rg.GET("/study-sessions", c.progress.ListStudySessions)
	rg.POST("/study-sessions", c.progress.StartStudySession)
	rg.POST("/study-sessions/:id/end", c.progress.EndStudySession)

	rg.GET("/learning-paths", c.progress.ListPaths)
	rg.POST("/learning-paths", c.progress.CreatePath)
	rg.PUT("/learning-paths/:id", c.progress.UpdatePath)
	rg.DELETE("/learning-paths/:id", c.progress.DeletePath)

	rg.GET("/achievements", c.achievement.List)
	rg.GET("/achievements/mine", c.achievement.Mine)
}

func (a *App) registerStaffRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	{
		admin.POST("/grades", c.admin.CreateGrade)
		admin.PUT("/grades/:id", c.admin.UpdateGrade)
		admin.DELETE("/grades/:id", c.admin.DeleteGrade)

		admin.GET("/topics", c.admin.ListTopics)
		admin.POST("/topics", c.admin.CreateTopic)
		admin.PUT("/topics/:id", c.admin.UpdateTopic)
		admin.DELETE("/topics/:id", c.admin.DeleteTopic)

		admin.POST("/topics/:id/contents", c.admin.SaveContent)
		admin.PUT("/topics/:id/contents/:resourceId", c.admin.SaveContent)
		admin.DELETE("/topics/:id/contents/:resourceId", c.admin.DeleteResource(service.ResourceContent))
		admin.POST("/topics/:id/formulas", c.admin.SaveFormula)
		admin.PUT("/topics/:id/formulas/:resourceId", c.admin.SaveFormula)
		admin.DELETE("/topics/:id/formulas/:resourceId", c.admin.DeleteResource(service.ResourceFormula))
		admin.POST("/topics/:id/experiments", c.admin.SaveExperiment)
		admin.PUT("/topics/:id/experiments/:resourceId", c.admin.SaveExperiment)
		admin.DELETE("/topics/:id/experiments/:resourceId", c.admin.DeleteResource(service.ResourceExperiment))
		admin.POST("/topics/:id/media", c.admin.UploadMedia)
		admin.DELETE("/topics/:id/media/:resourceId", c.admin.DeleteResource(service.ResourceMedia))

		admin.GET("/quizzes", c.admin.ListQuizzes)
		admin.GET("/quizzes/:id", c.admin.GetQuiz)
		admin.POST("/quizzes", c.admin.CreateQuiz)
		admin.PUT("/quizzes/:id", c.admin.UpdateQuiz)
		admin.DELETE("/quizzes/:id", c.admin.DeleteQuiz)

		admin.GET("/simulations", c.admin.ListSimulations)
		admin.GET("/simulations/:id", c.admin.GetSimulation)
		admin.POST("/simulations", c.admin.CreateSimulation)
		admin.PUT("/simulations/:id", c.admin.UpdateSimulation)
		admin.DELETE("/simulations/:id", c.admin.DeleteSimulation)

		admin.GET("/achievements", c.achievement.AdminList)
		admin.POST("/achievements", c.achievement.Create)
		admin.PUT("/achievements/:id", c.achievement.Update)
		admin.DELETE("/achievements/:id", c.achievement.Delete)
	}

	reports := rg.Group("/teacher/reports")
	{
		reports.GET("/quizzes/:id/attempts", c.report.QuizAttempts)
		reports.GET("/learners", c.report.LearnerAnalytics)
	}
}
