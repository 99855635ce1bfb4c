package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/entity"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	eventRepo := repository.NewShipmentEventRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Services
	feed := services.NewPositionFeed()
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	shipmentSvc := services.NewShipmentService(db, shipmentRepo, eventRepo, userRepo, cfg.TrackingPrefix)
	positionSvc := services.NewPositionService(positionRepo, feed)
	dispatchSvc := services.NewDispatchService(userRepo, positionSvc, feed)
	invoiceSvc := services.NewInvoiceService(shipmentRepo, invoiceRepo)
	userSvc := services.NewUserService(userRepo)
	analyticsSvc := services.NewAnalyticsService(db, shipmentRepo)

	if err := dispatchSvc.Start(); err != nil {
		panic(err)
	}

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	shipmentCtrl := controllers.NewShipmentController(shipmentSvc)
	trackingCtrl := controllers.NewTrackingController(shipmentSvc)
	riderCtrl := controllers.NewRiderController(positionSvc)
	dispatchCtrl := controllers.NewDispatchController(dispatchSvc)
	userCtrl := controllers.NewUserController(userSvc)
	docsCtrl := controllers.NewDocsController(invoiceSvc)
	analyticsCtrl := controllers.NewAnalyticsController(analyticsSvc)

	// Live dispatch fanout
	dispatchHub := ws.NewDispatchHub(feed)
	go dispatchHub.Run()

	auth := func(roles ...string) gin.HandlerFunc {
		return middlewares.AuthMiddleware(db, cfg.JWTSecret, roles...)
	}

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", auth())
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public tracking — PII-scrubbed lookup, no auth
	r.GET("/public/track", trackingCtrl.Track)

	// Shipments
	s := r.Group("/shipments", auth())
	{
		s.GET("", shipmentCtrl.List)
		s.GET("/export", shipmentCtrl.ExportCSV)
		s.GET("/:id", shipmentCtrl.Detail)
		s.GET("/:id/events", shipmentCtrl.Events)

		s.POST("/request", shipmentCtrl.Request) // customer pickup request
	}
	staff := r.Group("/shipments", auth(entity.RoleAdmin, entity.RoleAgent))
	{
		staff.POST("", shipmentCtrl.Create)
		staff.POST("/bulk", shipmentCtrl.BulkCreate)
		staff.POST("/:id/status", shipmentCtrl.UpdateStatus)
		staff.POST("/:id/events", shipmentCtrl.AppendEvent)
		staff.PATCH("/:id", shipmentCtrl.Patch)
	}
	r.DELETE("/shipments/:id", auth(entity.RoleAdmin), shipmentCtrl.Delete)

	// Rider GPS
	rider := r.Group("/rider", auth(entity.RoleRider))
	{
		rider.POST("/positions", riderCtrl.PostPosition)
	}

	// Dispatch map (staff)
	dispatch := r.Group("/dispatch", auth(entity.RoleAdmin, entity.RoleAgent))
	{
		dispatch.GET("/snapshot", dispatchCtrl.Snapshot)
		dispatch.POST("/resync", dispatchCtrl.Resync)
	}
	r.GET("/ws/dispatch", middlewares.WSAuthMiddleware(db, cfg.JWTSecret), dispatchHub.HandleWebSocket)

	// Documents
	docs := r.Group("/docs", auth())
	{
		docs.GET("/shipments/:id/snapshot", docsCtrl.Snapshot)
		docs.POST("/shipments/:id/invoice-number", docsCtrl.InvoiceNumber)
	}

	// Analytics (staff)
	r.GET("/analytics/overview", auth(entity.RoleAdmin, entity.RoleAgent), analyticsCtrl.Overview)

	// Admin account management
	admin := r.Group("/admin", auth(entity.RoleAdmin))
	{
		admin.GET("/users", userCtrl.List)
		admin.POST("/users", userCtrl.Create)
		admin.PATCH("/users/:id/role", userCtrl.SetRole)
		admin.PATCH("/users/:id/disabled", userCtrl.SetDisabled)
	}
}
