package routes

import (
	"github.com/Rahat-721/GiveBD/controllers"
	"github.com/Rahat-721/GiveBD/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers routes that require a logged-in user
func initUserRoutes(api *gin.RouterGroup) {
	user := api.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)

		donations := user.Group("/donations")
		{
			donations.GET("", controllers.ListMyDonations)
			donations.GET("/:id", controllers.GetDonation)
			donations.GET("/:id/receipt", controllers.DownloadReceipt)
		}

		bloodRequests := user.Group("/blood-requests")
		{
			bloodRequests.POST("", controllers.CreateBloodRequest)
			bloodRequests.PUT("/:id", controllers.UpdateBloodRequest)
		}
	}
}
