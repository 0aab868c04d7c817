package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/tumansdev/tum-panich-liff-production/controllers/order"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	orders := r.Group("/api/orders")
	{
		// Place a new order (transactional, notifies admin dashboards)
		orders.POST("", orderControllers.CreateOrder(db, hub))

		// Order lookup for the confirmation screen
		orders.GET("/number/:orderNumber", orderControllers.GetOrderByNumber(db))

		// Order history for a customer
		orders.GET("/user/:lineUserId", orderControllers.GetUserOrders(db))

		// Payment slip upload
		orders.POST("/:id/slip", orderControllers.UploadSlip(db))

		// Tracking timeline (accepts id or order number)
		orders.GET("/:id/tracking", orderControllers.TrackOrder(db))
	}
}
