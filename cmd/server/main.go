package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yallahq/yalla-api/internal/config"
	"github.com/yallahq/yalla-api/internal/database"
	"github.com/yallahq/yalla-api/internal/handlers"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/repository"
	"github.com/yallahq/yalla-api/internal/services"
	"github.com/yallahq/yalla-api/internal/storage"
	"github.com/yallahq/yalla-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return
	}

	if err := database.Migrate(); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		return
	}

	store, err := storage.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Error("failed to initialize upload storage", zap.Error(err))
		return
	}

	router := setupRouter(store)

	logger.Info("starting server", zap.String("addr", cfg.ServerAddr))
	if err := router.Run(cfg.ServerAddr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func setupRouter(store *storage.Store) *gin.Engine {
	db := database.GetDB()

	boardRepo := repository.NewBoardRepository(db)
	circleRepo := repository.NewCircleRepository(db)
	yallaRepo := repository.NewYallaRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	boardService := services.NewBoardService(boardRepo)
	circleService := services.NewCircleService(circleRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, yallaRepo, circleRepo, boardRepo, userRepo)
	yallaService := services.NewYallaService(yallaRepo, circleRepo, notificationService)
	userService := services.NewUserService(userRepo)

	boardHandler := handlers.NewBoardHandler(boardService)
	circleHandler := handlers.NewCircleHandler(circleService)
	yallaHandler := handlers.NewYallaHandler(yallaService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	userHandler := handlers.NewUserHandler(userService)
	uploadHandler := handlers.NewUploadHandler(store)

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Boards work with or without a caller identity.
	boards := api.Group("/boards", middleware.OptionalAuth())
	{
		boards.GET("", boardHandler.ListBoards)
		boards.GET("/all", boardHandler.ListAllBoards)
		boards.GET("/mine", boardHandler.ListMyBoards)
		boards.POST("", boardHandler.CreateBoard)
		boards.GET("/:boardId", boardHandler.GetBoard)
		boards.PATCH("/:boardId", boardHandler.UpdateBoard)
		boards.POST("/:boardId/columns", boardHandler.CreateColumn)
		boards.PATCH("/:boardId/columns/:columnId", boardHandler.UpdateColumn)
		boards.DELETE("/:boardId/columns/:columnId", boardHandler.DeleteColumn)
		boards.POST("/:boardId/items", boardHandler.CreateItem)
		boards.PATCH("/:boardId/items/:itemId", boardHandler.UpdateItem)
		boards.DELETE("/:boardId/items/:itemId", boardHandler.DeleteItem)
	}

	circles := api.Group("/circles", middleware.RequireAuth())
	{
		circles.GET("", circleHandler.ListUserCircles)
		circles.POST("", circleHandler.CreateCircle)
		circles.PATCH("/:circleId", circleHandler.UpdateCircle)
		circles.DELETE("/:circleId", circleHandler.DeleteCircle)
		circles.POST("/:circleId/members", circleHandler.AddMember)
		circles.DELETE("/:circleId/members/:userId", circleHandler.RemoveMember)
		circles.GET("/:circleId/yallas", yallaHandler.ListCircleYallas)
	}

	yallas := api.Group("/yallas", middleware.RequireAuth())
	{
		yallas.GET("", yallaHandler.ListUserYallas)
		yallas.POST("", yallaHandler.CreateYalla)
		yallas.PATCH("/:yallaId", yallaHandler.UpdateYalla)
		yallas.DELETE("/:yallaId", yallaHandler.DeleteYalla)
		yallas.POST("/:yallaId/votes", yallaHandler.VoteOnYalla)
		yallas.DELETE("/:yallaId/votes", yallaHandler.RemoveVote)
	}

	notifications := api.Group("/notifications", middleware.RequireAuth())
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.POST("", notificationHandler.CreateNotification)
		notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
		notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
		notifications.POST("/:notificationId/read", notificationHandler.MarkAsRead)
		notifications.DELETE("/:notificationId", notificationHandler.DeleteNotification)
		notifications.POST("/events/yalla", notificationHandler.NotifyYallaEvent)
		notifications.POST("/events/task", notificationHandler.NotifyTaskEvent)
		notifications.POST("/events/achievement", notificationHandler.NotifyAchievement)
		notifications.POST("/events/board-invite", notificationHandler.NotifyBoardInvite)
		notifications.POST("/events/circle-invite", notificationHandler.NotifyCircleInvite)
	}

	users := api.Group("/users", middleware.RequireAuth())
	{
		users.GET("", userHandler.ListUsers)
		users.POST("/sync", userHandler.SyncUser)
		users.GET("/me", userHandler.GetCurrentUser)
		users.PATCH("/me", userHandler.UpdateProfile)
		users.DELETE("/me", userHandler.DeleteUser)
		users.PATCH("/me/preferences", userHandler.UpdatePreferences)
		users.POST("/me/karma", userHandler.UpdateKarmaLevel)
		users.POST("/me/tasks-completed", userHandler.UpdateTasksCompleted)
		users.POST("/me/tasks-assigned", userHandler.UpdateTasksAssigned)
		users.GET("/:userId", userHandler.GetUser)
	}

	uploads := api.Group("/uploads")
	{
		uploads.POST("", middleware.RequireAuth(), uploadHandler.GenerateUploadURL)
		uploads.PUT("/:storageId", uploadHandler.UploadObject)
		uploads.GET("/:storageId", uploadHandler.DownloadObject)
	}

	api.GET("/images/:storageId", uploadHandler.GetObjectURL)

	return router
}
