package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/tumansdev/tum-panich-liff-production/controllers/admin"
	"github.com/tumansdev/tum-panich-liff-production/middleware"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/gorm"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	// Login is the only unprotected admin route
	r.POST("/api/admin/login", adminController.Login(db))

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth)
	{
		admin.GET("/dashboard", adminController.GetDashboard(db))
		admin.GET("/realtime/stats", adminController.RealtimeStats(hub))

		// Order queue
		admin.GET("/orders", adminController.GetOrders(db))
		admin.PUT("/orders/:id/status", adminController.UpdateOrderStatus(db, hub))
		admin.PUT("/orders/:id/verify-payment", adminController.VerifyPayment(db))
		admin.GET("/orders/:id/slip", adminController.GetOrderSlip(db))

		// Notifications
		admin.GET("/notifications", adminController.GetNotifications(db))
		admin.PUT("/notifications/read-all", adminController.MarkAllNotificationsRead(db))
		admin.PUT("/notifications/:id/read", adminController.MarkNotificationRead(db))

		// Menu management
		admin.GET("/menu", adminController.GetAllMenu(db))
		admin.POST("/menu", adminController.CreateMenuItem(db))
		admin.PUT("/menu/:id", adminController.UpdateMenuItem(db))
		admin.DELETE("/menu/:id", adminController.DeleteMenuItem(db))
		admin.POST("/menu/upload", adminController.UploadMenuImage())

		// Coupons
		admin.GET("/coupons", adminController.GetCoupons(db))
		admin.POST("/coupons", adminController.CreateCoupon(db))
		admin.PUT("/coupons/:id", adminController.UpdateCoupon(db))

		// Reports
		admin.GET("/reports/daily", adminController.GetDailyReport(db))
		admin.GET("/reports/daily/export", adminController.ExportDailyReportExcel(db))
		admin.GET("/reports/summary", adminController.GetSummaryReport(db))
	}
}
