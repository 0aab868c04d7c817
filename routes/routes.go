package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public,
// realtime, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	// Realtime updates (customers and admin dashboards)
	r.GET("/ws", hub.HandleConnection)

	// Public LIFF-facing routes
	SetupMenuRoutes(r, db)
	SetupOrderRoutes(r, db, hub)
	SetupUserRoutes(r, db)
	SetupCouponRoutes(r, db)

	// Back office (JWT-protected)
	SetupAdminRoutes(r, db, hub)
}
