package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/controllers"
	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/middlewares"
	"github.com/PrayerLoop/services"
)

func init() {
	initializers.LoadEnv()
	if err := initializers.LoadConfig(); err != nil {
		log.Fatal(err)
	}
	initializers.ConnectDB()
	services.InitPushNotificationService()
}

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := services.InitWallServices(ctx, initializers.Config); err != nil {
		log.Fatal(err)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{initializers.Config.CORSOrigin},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	router.GET("/ping", middlewares.NewRateLimiter("ping", 2, 2, nil).Middleware(), controllers.Ping)

	public := router.Group("/")
	public.Use(middlewares.OptionalAuth)
	public.Use(middlewares.NewRateLimiter("read", 10, 10, middlewares.ClientKey).Middleware())
	{
		public.GET("/organizations/:organization_id", controllers.GetOrganization)
		public.GET("/organizations/:organization_id/prayers", controllers.ListPrayers)
		public.GET("/organizations/:organization_id/walls", controllers.GetRecentWalls)
		public.GET("/prayers/:prayer_id/comments", controllers.GetPrayerComments)
	}

	// guests may submit, so submission gets its own tighter bucket
	router.POST("/organizations/:organization_id/prayers",
		middlewares.OptionalAuth,
		middlewares.NewRateLimiter("submit", 2, 5, middlewares.ClientKey).Middleware(),
		controllers.SubmitPrayer)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.NewRateLimiter("write", 10, 10, middlewares.ClientKey).Middleware())
	{
		// user routes
		auth.GET("/users/me", controllers.GetUserProfile)
		auth.GET("/users/me/analytics", controllers.GetAnalytics)
		auth.PATCH("/users/me/visibility", controllers.UpdateVisibility)
		auth.POST("/users/push-token", controllers.StorePushToken)

		// notification routes
		auth.GET("/users/me/notifications", controllers.GetNotifications)
		auth.PATCH("/users/me/notifications/:notification_id", controllers.ToggleNotificationStatus)
		auth.DELETE("/users/me/notifications/:notification_id", controllers.DeleteNotification)
		auth.POST("/users/me/notifications/read-all", controllers.MarkAllNotificationsAsRead)

		// prayer routes
		auth.PUT("/prayers/:prayer_id", controllers.UpdatePrayer)
		auth.DELETE("/prayers/:prayer_id", controllers.DeletePrayer)
		auth.GET("/prayers/:prayer_id/history", controllers.GetPrayerHistory)
		auth.POST("/prayers/:prayer_id/like", controllers.LikePrayer)
		auth.DELETE("/prayers/:prayer_id/like", controllers.UnlikePrayer)

		// comment routes
		auth.POST("/prayers/:prayer_id/comments", controllers.CreateComment)
		auth.DELETE("/prayers/:prayer_id/comments/:comment_id", controllers.DeleteComment)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	services.StopWallServices()
	stop()

	log.Println("Server exiting")
}
