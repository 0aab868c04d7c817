package routes

import (
	"github.com/gin-gonic/gin"
	menuControllers "github.com/tumansdev/tum-panich-liff-production/controllers/menu"
	"gorm.io/gorm"
)

func SetupMenuRoutes(r *gin.Engine, db *gorm.DB) {
	menu := r.Group("/api/menu")
	{
		menu.GET("", menuControllers.GetAllMenuItems(db))
		menu.GET("/:id", menuControllers.GetMenuItemByID(db))
		menu.GET("/category/:categoryId", menuControllers.GetMenuItemsByCategory(db))
	}
}
