package handlers

import (
	"context"
	"log/slog"

	"autoinfo-cms/config"
	"autoinfo-cms/docs"
	"autoinfo-cms/helper"
	"autoinfo-cms/middleware"
	"autoinfo-cms/repositories"
	"autoinfo-cms/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from process startup.
type Deps struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Log    *slog.Logger
}

// SetupRouter wires repositories, services and handlers into a gin engine.
func SetupRouter(deps Deps) *gin.Engine {
	conf := deps.Config
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	httpHelper := helper.NewHTTPHelper(conf.App.Debug)
	uow := repositories.NewUnitOfWork(deps.DB)

	articleHandler := NewArticleHandler(services.NewArticleService(uow, conf.Pagination, conf.Content, log), httpHelper)
	categoryHandler := NewCategoryHandler(services.NewCategoryService(uow), httpHelper)
	tagHandler := NewTagHandler(services.NewTagService(uow), httpHelper)
	systemHandler := NewSystemHandler(conf.App, dbPinger(deps.DB), services.NewStatsService(uow), httpHelper)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(httpHelper, log),
		middleware.CORS(conf.CORS.AllowOrigins),
	)

	docs.SwaggerInfo.Title = conf.App.Name
	docs.SwaggerInfo.Version = conf.App.Version

	r.GET("/", systemHandler.Root)

	api := r.Group("/api")
	{
		api.GET("/health", systemHandler.Health)
		api.GET("/stats", systemHandler.GetStats)
		api.GET("/search", articleHandler.Search)
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.GetArticles)
			articles.POST("", articleHandler.CreateArticle)
			articles.GET("/:id", articleHandler.GetArticle)
			articles.PUT("/:id", articleHandler.UpdateArticle)
			articles.DELETE("/:id", articleHandler.DeleteArticle)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.GetTags)
			tags.POST("", tagHandler.CreateTag)
			tags.GET("/popular", tagHandler.GetPopularTags)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		httpHelper.SendNotFoundError(c, "not found", nil)
	})

	return r
}

func dbPinger(db *gorm.DB) Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
