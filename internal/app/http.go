package app

import (
	"fmt"

	apphttp "github.com/yungbote/practicefeed-backend/internal/http"
	httpH "github.com/yungbote/practicefeed-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practicefeed-backend/internal/http/middleware"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Feed        *httpH.FeedHandler
	Preferences *httpH.PreferencesHandler
	Submission  *httpH.SubmissionHandler
	Question    *httpH.QuestionHandler
	User        *httpH.UserHandler
	Catalog     *httpH.CatalogHandler
	Activity    *httpH.ActivityHandler
}

func wireHandlers(log *logger.Logger, s Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(metrics),
		Feed:        httpH.NewFeedHandler(s.Feed),
		Preferences: httpH.NewPreferencesHandler(s.Preferences),
		Submission:  httpH.NewSubmissionHandler(s.Submission),
		Question:    httpH.NewQuestionHandler(s.Question, s.Engagement, s.User),
		User:        httpH.NewUserHandler(s.User),
		Catalog:     httpH.NewCatalogHandler(s.Catalog),
		Activity:    httpH.NewActivityHandler(s.Activity),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) (Middleware, error) {
	log.Info("Wiring middleware...")
	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
	if err != nil {
		return Middleware{}, fmt.Errorf("init auth: %w", err)
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, auth),
	}, nil
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		ServiceName:        cfg.OtelServiceName,
		TracingEnabled:     cfg.OtelEnabled,
		AllowOrigins:       cfg.CORSAllowOrigins,
		AuthMiddleware:     middleware.Auth,
		FeedHandler:        handlers.Feed,
		PreferencesHandler: handlers.Preferences,
		SubmissionHandler:  handlers.Submission,
		QuestionHandler:    handlers.Question,
		UserHandler:        handlers.User,
		CatalogHandler:     handlers.Catalog,
		ActivityHandler:    handlers.Activity,
		HealthHandler:      handlers.Health,
	})
}
