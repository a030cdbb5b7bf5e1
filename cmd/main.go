package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/database"
	"github.com/lshigami/Kindred/docs"
	adminctrl "github.com/lshigami/Kindred/internal/controller/admin"
	userctrl "github.com/lshigami/Kindred/internal/controller/user"
	"github.com/lshigami/Kindred/internal/logger"
	"github.com/lshigami/Kindred/internal/mailer"
	"github.com/lshigami/Kindred/internal/middleware"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/payment"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/lshigami/Kindred/internal/router"
	"github.com/lshigami/Kindred/internal/service"
	"github.com/lshigami/Kindred/internal/storage"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Kindred API
// @version 1.0
// @description Couples' relationship assessment: questionnaire, partner invites, payments and comparison reports.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			router.NewEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewProfileRepository,
			repository.NewQuestionRepository,
			repository.NewAssessmentRepository,
			repository.NewAnswerRepository,
			repository.NewInviteRepository,
			repository.NewTokenRepository,
			repository.NewArticleRepository,
			repository.NewFAQRepository,
		),

		// Third-party clients
		fx.Provide(
			middleware.NewTokenManager,
			func(tm *middleware.TokenManager) service.TokenSigner { return tm },
			fx.Annotate(payment.NewStripeClient, fx.As(new(service.PaymentProvider))),
			fx.Annotate(mailer.NewResendMailer, fx.As(new(service.Mailer))),
			fx.Annotate(storage.NewB2Storage, fx.As(new(service.Uploader))),
			service.NewGeminiLLMService,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			service.NewAssessmentService,
			service.NewReportService,
			service.NewInviteService,
			service.NewPaymentService,
			service.NewQuestionService,
			service.NewContentService,
			service.NewDashboardService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewAssessmentController,
			userctrl.NewReportController,
			userctrl.NewInviteController,
			userctrl.NewPaymentController,
			userctrl.NewContentController,
			adminctrl.NewQuestionController,
			adminctrl.NewContentController,
			adminctrl.NewDashboardController,
		),

		fx.Invoke(CheckEnvironment),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

// CheckEnvironment logs configuration problems. It only runs in development
// so a half-configured local setup still boots.
func CheckEnvironment(cfg *config.Config) {
	if !cfg.IsDevelopment() {
		return
	}
	problems := cfg.Validate()
	for _, p := range problems {
		log.Warn().Str("problem", p).Msg("Environment check")
	}
	if len(problems) == 0 {
		log.Info().Msg("Environment check passed")
	}
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	tm *middleware.TokenManager,
	tokens repository.TokenRepository,
	controllers router.Controllers,
) {
	router.Register(engine, tm, tokens, controllers)
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	purgeDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Kindred API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			go func() {
				defer close(purgeDone)
				purgeRevokedTokens(purgeCtx, tokens, revokedPurgeInterval)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			stopPurge()
			select {
			case <-purgeDone:
			case <-ctx.Done():
			}
			return server.Shutdown(ctx)
		},
	})
}

const revokedPurgeInterval = 6 * time.Hour

// purgeRevokedTokens drops revocations whose tokens have expired anyway,
// until ctx is cancelled.
func purgeRevokedTokens(ctx context.Context, tokens repository.TokenRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		n, err := tokens.PurgeExpired(time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("Purge revoked tokens failed")
		} else if n > 0 {
			log.Info().Int64("purged", n).Msg("Purged expired token revocations")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
