package routes

import (
	"github.com/Rahat-721/GiveBD/controllers"
	"github.com/Rahat-721/GiveBD/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1")
	{
		// Auth
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Public campaign browsing
		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", controllers.ListCampaigns)
			campaigns.GET("/:id", controllers.GetCampaign)
		}

		// Public blood request board
		bloodRequests := api.Group("/blood-requests")
		{
			bloodRequests.GET("", controllers.ListBloodRequests)
			bloodRequests.GET("/:id", controllers.GetBloodRequest)
		}

		// Checkout works for guests and logged-in donors alike
		api.POST("/checkout/donate", middleware.OptionalAuthMiddleware(), controllers.InitiateDonation)

		initPaymentRoutes(api)
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}

// initPaymentRoutes registers the gateway callback endpoints. They are
// unauthenticated by nature; every handler re-verifies with the provider
// before settling.
func initPaymentRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	{
		payments.GET("/bkash/callback", controllers.BkashCallback)

		sslcommerz := payments.Group("/sslcommerz")
		{
			sslcommerz.POST("/success", controllers.SSLCommerzSuccess)
			sslcommerz.POST("/fail", controllers.SSLCommerzFail)
			sslcommerz.POST("/cancel", controllers.SSLCommerzCancel)
			sslcommerz.POST("/ipn", controllers.SSLCommerzIPN)
		}

		shurjopay := payments.Group("/shurjopay")
		{
			shurjopay.GET("/return", controllers.ShurjoPayReturn)
			shurjopay.GET("/cancel", controllers.ShurjoPayCancel)
		}
	}
}
