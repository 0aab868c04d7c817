package menuControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

// GET /api/menu
func GetAllMenuItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.MenuItem
		if err := db.Preload("Category").
			Where("is_available = ?", true).
			Order("is_recommended DESC, sort_order, id").
			Find(&items).Error; err != nil {
			log.Println("❌ Error fetching menu:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch menu"})
			return
		}

		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("sort_order").Find(&categories).Error; err != nil {
			log.Println("❌ Error fetching categories:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch menu"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"items":      items,
				"categories": categories,
			},
		})
	}
}

// GET /api/menu/:id
func GetMenuItemByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var item models.MenuItem
		if err := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_group, id")
		}).First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Menu item not found"})
				return
			}
			log.Println("❌ Error fetching menu item:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch menu item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
	}
}

// GET /api/menu/category/:categoryId
func GetMenuItemsByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Param("categoryId")

		var items []models.MenuItem
		if err := db.Where("category_id = ? AND is_available = ?", categoryID, true).
			Order("is_recommended DESC, sort_order, id").
			Find(&items).Error; err != nil {
			log.Println("❌ Error fetching menu by category:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch menu"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
	}
}
