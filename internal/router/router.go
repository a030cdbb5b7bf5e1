// Package router builds the gin engine and mounts every API route.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/config"
	adminctrl "github.com/lshigami/Kindred/internal/controller/admin"
	userctrl "github.com/lshigami/Kindred/internal/controller/user"
	"github.com/lshigami/Kindred/internal/middleware"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

const BasePath = "/api/v1"

type Controllers struct {
	fx.In

	Auth       *userctrl.AuthController
	Assessment *userctrl.AssessmentController
	Report     *userctrl.ReportController
	Invite     *userctrl.InviteController
	Payment    *userctrl.PaymentController
	Content    *userctrl.ContentController

	AdminQuestion  *adminctrl.QuestionController
	AdminContent   *adminctrl.ContentController
	AdminDashboard *adminctrl.DashboardController
}

func NewEngine(cfg *config.Config) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.Server.AllowedOrigins
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Register mounts the public, signed-in and admin route groups.
func Register(r *gin.Engine, tm *middleware.TokenManager, tokens repository.TokenRepository, c Controllers) {
	api := r.Group(BasePath)

	api.POST("/auth/signup", c.Auth.SignUp)
	api.POST("/auth/login", c.Auth.Login)
	api.GET("/questions", c.Content.ListQuestions)
	api.GET("/articles", c.Content.ListArticles)
	api.GET("/articles/:slug", c.Content.GetArticle)
	api.GET("/faqs", c.Content.ListFAQs)
	api.GET("/invites/:token", c.Invite.Get)
	api.POST("/payments/webhook", c.Payment.Webhook)

	authed := api.Group("", middleware.RequireAuth(tm, tokens))
	{
		authed.POST("/auth/logout", c.Auth.Logout)
		authed.GET("/me", c.Auth.Me)
		authed.POST("/payments/checkout", c.Payment.Checkout)

		authed.POST("/assessments", c.Assessment.Create)
		authed.GET("/assessments", c.Assessment.List)
		authed.GET("/assessments/:id", c.Assessment.Get)
		authed.GET("/assessments/:id/progress", c.Assessment.Progress)
		authed.POST("/assessments/:id/answers", c.Assessment.SubmitAnswers)
		authed.GET("/assessments/:id/report", c.Report.GetReport)
		authed.GET("/assessments/:id/report/print", c.Report.PrintReport)
		authed.GET("/assessments/:id/report/summary", c.Report.GetSummary)
		authed.POST("/assessments/:id/invites", c.Invite.Create)
		authed.POST("/invites/:token/accept", c.Invite.Accept)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/dashboard", c.AdminDashboard.Stats)

		admin.GET("/questions", c.AdminQuestion.List)
		admin.POST("/questions", c.AdminQuestion.Create)
		admin.GET("/questions/:id", c.AdminQuestion.Get)
		admin.PUT("/questions/:id", c.AdminQuestion.Update)
		admin.DELETE("/questions/:id", c.AdminQuestion.Delete)
		admin.POST("/questions/:id/publish", c.AdminQuestion.Publish)
		admin.POST("/questions/:id/unpublish", c.AdminQuestion.Unpublish)

		admin.GET("/articles", c.AdminContent.ListArticles)
		admin.POST("/articles", c.AdminContent.CreateArticle)
		admin.GET("/articles/:id", c.AdminContent.GetArticle)
		admin.PUT("/articles/:id", c.AdminContent.UpdateArticle)
		admin.DELETE("/articles/:id", c.AdminContent.DeleteArticle)
		admin.POST("/articles/:id/publish", c.AdminContent.PublishArticle)
		admin.POST("/articles/:id/unpublish", c.AdminContent.UnpublishArticle)
		admin.POST("/articles/:id/cover", c.AdminContent.UploadCover)

		admin.GET("/faqs", c.AdminContent.ListFAQs)
		admin.POST("/faqs", c.AdminContent.CreateFAQ)
		admin.PUT("/faqs/:id", c.AdminContent.UpdateFAQ)
		admin.DELETE("/faqs/:id", c.AdminContent.DeleteFAQ)
	}
}
