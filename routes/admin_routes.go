package routes

import (
	"github.com/Rahat-721/GiveBD/controllers"
	"github.com/Rahat-721/GiveBD/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes registers routes that require an admin user
func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		campaigns := admin.Group("/campaigns")
		{
			campaigns.POST("", controllers.CreateCampaign)
			campaigns.PUT("/:id", controllers.UpdateCampaign)
			campaigns.DELETE("/:id", controllers.DeleteCampaign)
		}

		donations := admin.Group("/donations")
		{
			donations.GET("", controllers.AdminListDonations)
			donations.GET("/summary", controllers.AdminDonationSummary)
		}

		admin.PUT("/blood-requests/:id/status", controllers.AdminUpdateBloodRequestStatus)
	}
}
