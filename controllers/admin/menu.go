package adminController

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderControllers "github.com/tumansdev/tum-panich-liff-production/controllers/order"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type CreateMenuItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	NameEn        string  `json:"nameEn"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required"`
	ImageURL      string  `json:"imageUrl"`
	CategoryID    *uint   `json:"categoryId"`
	IsAvailable   *bool   `json:"isAvailable"`
	IsRecommended *bool   `json:"isRecommended"`
	IsSpicy       *bool   `json:"isSpicy"`
	IsVegan       *bool   `json:"isVegan"`
}

// UpdateMenuItemInput is the explicit allow-list of updatable fields;
// absent fields are left untouched.
type UpdateMenuItemInput struct {
	Name          *string  `json:"name"`
	NameEn        *string  `json:"nameEn"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	ImageURL      *string  `json:"imageUrl"`
	CategoryID    *uint    `json:"categoryId"`
	IsAvailable   *bool    `json:"isAvailable"`
	IsRecommended *bool    `json:"isRecommended"`
	IsSpicy       *bool    `json:"isSpicy"`
	IsVegan       *bool    `json:"isVegan"`
	SortOrder     *int     `json:"sortOrder"`
}

// -------- Handlers --------

// GET /api/admin/menu (includes unavailable items)
func GetAllMenu(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.MenuItem
		if err := db.Preload("Category").
			Order("category_id, sort_order, id").
			Find(&items).Error; err != nil {
			log.Println("❌ Get menu error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load menu"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
	}
}

// POST /api/admin/menu
func CreateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		item := models.MenuItem{
			Name:          req.Name,
			NameEn:        req.NameEn,
			Description:   req.Description,
			Price:         req.Price,
			ImageURL:      req.ImageURL,
			CategoryID:    req.CategoryID,
			IsAvailable:   true,
			IsRecommended: false,
			IsSpicy:       false,
			IsVegan:       false,
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}
		if req.IsRecommended != nil {
			item.IsRecommended = *req.IsRecommended
		}
		if req.IsSpicy != nil {
			item.IsSpicy = *req.IsSpicy
		}
		if req.IsVegan != nil {
			item.IsVegan = *req.IsVegan
		}

		if err := db.Create(&item).Error; err != nil {
			log.Println("❌ Create menu error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create menu item"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
	}
}

// PUT /api/admin/menu/:id
func UpdateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var item models.MenuItem
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Menu item not found"})
				return
			}
			log.Println("❌ Update menu error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update menu item"})
			return
		}

		var input UpdateMenuItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		updates := make(map[string]any)
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.NameEn != nil {
			updates["name_en"] = *input.NameEn
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.ImageURL != nil {
			updates["image_url"] = *input.ImageURL
		}
		if input.CategoryID != nil {
			updates["category_id"] = *input.CategoryID
		}
		if input.IsAvailable != nil {
			updates["is_available"] = *input.IsAvailable
		}
		if input.IsRecommended != nil {
			updates["is_recommended"] = *input.IsRecommended
		}
		if input.IsSpicy != nil {
			updates["is_spicy"] = *input.IsSpicy
		}
		if input.IsVegan != nil {
			updates["is_vegan"] = *input.IsVegan
		}
		if input.SortOrder != nil {
			updates["sort_order"] = *input.SortOrder
		}

		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid fields to update"})
			return
		}

		if err := db.Model(&item).Updates(updates).Error; err != nil {
			log.Println("❌ Update menu error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update menu item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
	}
}

// DELETE /api/admin/menu/:id
func DeleteMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		res := db.Delete(&models.MenuItem{}, "id = ?", id)
		if res.Error != nil {
			log.Println("❌ Delete menu error:", res.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete menu item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Menu item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted"})
	}
}

// POST /api/admin/menu/upload
func UploadMenuImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
			return
		}

		filename := uuid.NewString() + filepath.Ext(file.Filename)
		dst := filepath.Join(orderControllers.UploadDir(), "menu", filename)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			log.Println("❌ Upload menu image error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload image"})
			return
		}
		if err := c.SaveUploadedFile(file, dst); err != nil {
			log.Println("❌ Upload menu image error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload image"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"imageUrl": "/uploads/menu/" + filename}})
	}
}
