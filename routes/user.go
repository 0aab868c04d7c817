package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/tumansdev/tum-panich-liff-production/controllers/user"
	"gorm.io/gorm"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	users := r.Group("/api/users")
	{
		users.POST("/register", userControllers.RegisterUser(db))
		users.GET("/:lineUserId", userControllers.GetUserByLineID(db))
		users.PUT("/:lineUserId", userControllers.UpdateUser(db))
		users.GET("/:lineUserId/addresses", userControllers.GetUserAddresses(db))
		users.POST("/:lineUserId/addresses", userControllers.AddUserAddress(db))
		users.DELETE("/:lineUserId/addresses/:addressId", userControllers.DeleteUserAddress(db))
	}
}
