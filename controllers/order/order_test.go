package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{},
		&models.Category{}, &models.MenuItem{}, &models.MenuOption{},
		&models.Order{}, &models.OrderItem{},
		&models.Coupon{}, &models.CouponUsage{},
		&models.Notification{},
	))
	return db
}

func seedMenu(t *testing.T, db *gorm.DB) (models.MenuItem, models.MenuItem) {
	t.Helper()
	cat := models.Category{Name: "อาหารจานเดียว", IsActive: true}
	require.NoError(t, db.Create(&cat).Error)

	noodle := models.MenuItem{CategoryID: &cat.ID, Name: "ก๋วยเตี๋ยวต้มยำ", Price: 60, IsAvailable: true}
	rice := models.MenuItem{CategoryID: &cat.ID, Name: "ข้าวผัดกะเพรา", Price: 55, IsAvailable: true}
	require.NoError(t, db.Create(&noodle).Error)
	require.NoError(t, db.Create(&rice).Error)
	return noodle, rice
}

func newOrderRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", CreateOrder(db, hub))
	r.GET("/api/orders/number/:orderNumber", GetOrderByNumber(db))
	r.GET("/api/orders/user/:lineUserId", GetUserOrders(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validRequest(noodle models.MenuItem) map[string]any {
	return map[string]any{
		"lineUserId":   "U1234567890",
		"deliveryType": "pickup",
		"items": []map[string]any{
			{"menuItemId": noodle.ID, "name": noodle.Name, "price": 60.0, "quantity": 2},
		},
		"subtotal": 120.0,
		"total":    120.0,
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	w := postJSON(t, r, "/api/orders", validRequest(noodle))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber string  `json:"orderNumber"`
			OrderID     uint    `json:"orderId"`
			Total       float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Data.OrderNumber, "TP-"))
	assert.LessOrEqual(t, len(resp.Data.OrderNumber), 12)
	assert.Equal(t, 120.0, resp.Data.Total)

	// Customer was auto-registered
	var user models.User
	require.NoError(t, db.Where("line_user_id = ?", "U1234567890").First(&user).Error)

	// Item snapshot carries the name and computed subtotal
	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", resp.Data.OrderID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, noodle.Name, items[0].Name)
	assert.Equal(t, 120.0, items[0].Subtotal)
	assert.Equal(t, "[]", string(items[0].Options))

	// Popularity counter moved by quantity
	var updated models.MenuItem
	require.NoError(t, db.First(&updated, noodle.ID).Error)
	assert.Equal(t, 2, updated.OrderCount)

	// Admin notification recorded
	var n models.Notification
	require.NoError(t, db.Where("type = ?", models.NotificationNewOrder).First(&n).Error)
	assert.Contains(t, n.Message, resp.Data.OrderNumber)

	// Order starts pending and unpaid
	var order models.Order
	require.NoError(t, db.First(&order, resp.Data.OrderID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestCreateOrderUnavailableItemRollsBack(t *testing.T) {
	db := setupTestDB(t)
	noodle, rice := seedMenu(t, db)
	require.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", rice.ID).
		Update("is_available", false).Error)
	r := newOrderRouter(db, realtime.NewHub())

	body := map[string]any{
		"lineUserId":   "U1234567890",
		"deliveryType": "pickup",
		"items": []map[string]any{
			{"menuItemId": noodle.ID, "name": noodle.Name, "price": 60.0, "quantity": 1},
			{"menuItemId": rice.ID, "name": rice.Name, "price": 55.0, "quantity": 1},
		},
		"subtotal": 115.0,
		"total":    115.0,
	}
	w := postJSON(t, r, "/api/orders", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nothing leaked out of the failed transaction
	var orders, items, notifications int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	db.Model(&models.Notification{}).Count(&notifications)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, notifications)

	var updated models.MenuItem
	require.NoError(t, db.First(&updated, noodle.ID).Error)
	assert.Zero(t, updated.OrderCount, "counter must not move on rollback")
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	t.Run("mismatched total", func(t *testing.T) {
		body := validRequest(noodle)
		body["total"] = 999.0
		w := postJSON(t, r, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delivery without address", func(t *testing.T) {
		body := validRequest(noodle)
		body["deliveryType"] = "free_delivery"
		w := postJSON(t, r, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown delivery type", func(t *testing.T) {
		body := validRequest(noodle)
		body["deliveryType"] = "teleport"
		w := postJSON(t, r, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero quantity", func(t *testing.T) {
		body := validRequest(noodle)
		body["items"] = []map[string]any{
			{"menuItemId": noodle.ID, "name": noodle.Name, "price": 60.0, "quantity": 0},
		}
		w := postJSON(t, r, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no items", func(t *testing.T) {
		body := validRequest(noodle)
		body["items"] = []map[string]any{}
		w := postJSON(t, r, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateOrderWithCoupon(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	maxUses := 10
	coupon := models.Coupon{
		Code: "WELCOME10", DiscountType: models.DiscountTypeFixed,
		DiscountValue: 10, MinOrder: 100, MaxUses: &maxUses, IsActive: true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	body := func(lineUserID string) map[string]any {
		return map[string]any{
			"lineUserId":   lineUserID,
			"deliveryType": "pickup",
			"items": []map[string]any{
				{"menuItemId": noodle.ID, "name": noodle.Name, "price": 60.0, "quantity": 2},
			},
			"subtotal": 120.0,
			"discount": 10.0,
			"total":    110.0,
			"couponId": coupon.ID,
		}
	}

	w := postJSON(t, r, "/api/orders", body("U-first"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fresh models.Coupon
	require.NoError(t, db.First(&fresh, coupon.ID).Error)
	assert.Equal(t, 1, fresh.CurrentUses)

	var usages int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usages)
	assert.Equal(t, int64(1), usages)

	// Same customer cannot redeem twice
	w = postJSON(t, r, "/api/orders", body("U-first"))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "คุณเคยใช้คูปองนี้แล้ว", resp.Error)

	// The rejected attempt left no order behind
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(1), orders)

	// A different customer still can
	w = postJSON(t, r, "/api/orders", body("U-second"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateOrderCouponExhausted(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	maxUses := 1
	coupon := models.Coupon{
		Code: "LAST1", DiscountType: models.DiscountTypeFixed,
		DiscountValue: 10, MaxUses: &maxUses, CurrentUses: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	body := validRequest(noodle)
	body["discount"] = 10.0
	body["total"] = 110.0
	body["couponId"] = coupon.ID

	w := postJSON(t, r, "/api/orders", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestCreateOrderUnknownCoupon(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	body := validRequest(noodle)
	body["couponId"] = 9999

	w := postJSON(t, r, "/api/orders", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderByNumber(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	w := postJSON(t, r, "/api/orders", validRequest(noodle))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			OrderNumber string `json:"orderNumber"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/number/"+created.Data.OrderNumber, nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Equal(t, created.Data.OrderNumber, resp.Data.OrderNumber)
	assert.Len(t, resp.Data.Items, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/orders/number/TP-MISSING", nil)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}

func TestGetUserOrders(t *testing.T) {
	db := setupTestDB(t)
	noodle, _ := seedMenu(t, db)
	r := newOrderRouter(db, realtime.NewHub())

	for i := 0; i < 3; i++ {
		w := postJSON(t, r, "/api/orders", validRequest(noodle))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/user/U1234567890?limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	// Unknown customer gets an empty list, not an error
	req = httptest.NewRequest(http.MethodGet, "/api/orders/user/U-nobody", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		n := generateOrderNumber()
		assert.True(t, strings.HasPrefix(n, "TP-"))
		assert.Len(t, n, orderNumberMaxLen)
		assert.Equal(t, strings.ToUpper(n), n)
		seen[n] = struct{}{}
	}
	// The three-char random suffix gives 36^3 combinations per
	// millisecond, so a tight loop should almost never collide
	assert.Greater(t, len(seen), 190)
}
