package connection

import (
	"log"

	"workconnect/config"
	"workconnect/controller/auth"
	"workconnect/controller/client"
	"workconnect/controller/dashboard"
	"workconnect/controller/task"
	"workconnect/controller/user"
	"workconnect/realtime"
	"workconnect/scheduler"
	"workconnect/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET_KEY is required")
	}

	fb, err := FBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	hub := realtime.NewHub()
	realtime.ChannelController(router, hub)

	auth.AuthController(router, fb)
	user.UserController(router, fb)
	client.ClientController(router, fb)
	task.TaskController(router, fb)
	dashboard.DashboardController(router, fb)

	scanner := &scheduler.Scanner{
		Store: services.NewTaskService(fb),
		Dispatcher: &scheduler.Dispatcher{
			Presence: hub,
			Clients:  services.NewClientService(fb),
		},
		Interval:  cfg.ScanInterval,
		Lookahead: cfg.ScanLookahead,
	}
	if err := scanner.Start(); err != nil {
		log.Fatalf("scanner: %v", err)
	}
	defer scanner.Stop()

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
