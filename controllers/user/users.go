package userControllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------

type RegisterUserRequest struct {
	LineUserID  string `json:"lineUserId" binding:"required"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

type UpdateUserInput struct {
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	Birthday     *time.Time `json:"birthday"`
	DietaryNotes *string    `json:"dietaryNotes"`
}

type AddAddressRequest struct {
	Label       string   `json:"label"`
	AddressLine string   `json:"addressLine" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Note        string   `json:"note"`
	IsDefault   bool     `json:"isDefault"`
}

// -------- Handlers --------

// POST /api/users/register
// Upsert keyed on the LINE user id; profile fields refresh on every
// login.
func RegisterUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "LINE user ID is required"})
			return
		}

		user := models.User{
			LineUserID:  req.LineUserID,
			DisplayName: req.DisplayName,
			PictureURL:  req.PictureURL,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "line_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "picture_url", "updated_at"}),
		}).Create(&user).Error; err != nil {
			log.Println("❌ Error registering user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register user"})
			return
		}

		var saved models.User
		if err := db.Where("line_user_id = ?", req.LineUserID).First(&saved).Error; err != nil {
			log.Println("❌ Error registering user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": saved})
	}
}

// GET /api/users/:lineUserId
func GetUserByLineID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")

		var user models.User
		if err := db.Where("line_user_id = ?", lineUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
			log.Println("❌ Error fetching user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}

// PUT /api/users/:lineUserId
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")

		var user models.User
		if err := db.Where("line_user_id = ?", lineUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
			log.Println("❌ Error updating user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update user"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		updates := make(map[string]any)
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Email != nil {
			updates["email"] = *input.Email
		}
		if input.Birthday != nil {
			updates["birthday"] = *input.Birthday
		}
		if input.DietaryNotes != nil {
			updates["dietary_notes"] = *input.DietaryNotes
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				log.Println("❌ Error updating user:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update user"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}

// GET /api/users/:lineUserId/addresses
func GetUserAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")

		var addresses []models.Address
		if err := db.Joins("JOIN users ON users.id = addresses.user_id").
			Where("users.line_user_id = ?", lineUserID).
			Order("addresses.is_default DESC, addresses.created_at DESC").
			Find(&addresses).Error; err != nil {
			log.Println("❌ Error fetching addresses:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch addresses"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": addresses})
	}
}

// POST /api/users/:lineUserId/addresses
func AddUserAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")

		var user models.User
		if err := db.Where("line_user_id = ?", lineUserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
			log.Println("❌ Error adding address:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add address"})
			return
		}

		var req AddAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		if req.IsDefault {
			if err := db.Model(&models.Address{}).
				Where("user_id = ?", user.ID).
				Update("is_default", false).Error; err != nil {
				log.Println("❌ Error adding address:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add address"})
				return
			}
		}

		address := models.Address{
			UserID:      user.ID,
			Label:       req.Label,
			AddressLine: req.AddressLine,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Note:        req.Note,
			IsDefault:   req.IsDefault,
		}
		if err := db.Create(&address).Error; err != nil {
			log.Println("❌ Error adding address:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add address"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": address})
	}
}

// DELETE /api/users/:lineUserId/addresses/:addressId
func DeleteUserAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")
		addressID := c.Param("addressId")

		res := db.Where("id = ? AND user_id = (SELECT id FROM users WHERE line_user_id = ?)", addressID, lineUserID).
			Delete(&models.Address{})
		if res.Error != nil {
			log.Println("❌ Error deleting address:", res.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete address"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted"})
	}
}
