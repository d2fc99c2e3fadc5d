package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/practicefeed-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practicefeed-backend/internal/http/middleware"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowOrigins   []string

	AuthMiddleware *httpMW.AuthMiddleware

	FeedHandler        *httpH.FeedHandler
	PreferencesHandler *httpH.PreferencesHandler
	SubmissionHandler  *httpH.SubmissionHandler
	QuestionHandler    *httpH.QuestionHandler
	UserHandler        *httpH.UserHandler
	CatalogHandler     *httpH.CatalogHandler
	ActivityHandler    *httpH.ActivityHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		if cfg.Metrics != nil {
			r.GET("/metrics", cfg.HealthHandler.Metrics)
		}
	}

	public := r.Group("/api")
	{
		if cfg.CatalogHandler != nil {
			public.GET("/questions", cfg.CatalogHandler.ListQuestions)
		}
		if cfg.UserHandler != nil {
			public.GET("/leaderboard", cfg.UserHandler.Leaderboard)
		}
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Feed
		if cfg.FeedHandler != nil {
			protected.GET("/feed", cfg.FeedHandler.GetFeed)
		}

		// Preferences
		if cfg.PreferencesHandler != nil {
			protected.GET("/preferences", cfg.PreferencesHandler.Get)
			protected.PUT("/preferences", cfg.PreferencesHandler.Replace)
			protected.PATCH("/preferences", cfg.PreferencesHandler.Patch)
		}

		// Submissions
		if cfg.SubmissionHandler != nil {
			protected.POST("/submissions", cfg.SubmissionHandler.Submit)
			protected.GET("/submissions", cfg.SubmissionHandler.History)
		}

		// Questions
		if cfg.QuestionHandler != nil {
			protected.GET("/questions/:id", cfg.QuestionHandler.Get)
			protected.GET("/questions/:id/meta", cfg.QuestionHandler.Meta)
			protected.POST("/questions/:id/like", cfg.QuestionHandler.ToggleLike)
			protected.GET("/questions/:id/like", cfg.QuestionHandler.LikeStatus)
			protected.GET("/questions/:id/comments", cfg.QuestionHandler.ListComments)
			protected.POST("/questions/:id/comments", cfg.QuestionHandler.AddComment)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			protected.GET("/tags", cfg.CatalogHandler.Tags)
		}

		// Activity
		if cfg.ActivityHandler != nil {
			protected.GET("/streak", cfg.ActivityHandler.Streak)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
		}
	}

	return r
}
