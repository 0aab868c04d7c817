package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tumansdev/tum-panich-liff-production/models"
)

type trackingResp struct {
	Success bool `json:"success"`
	Data    struct {
		OrderNumber   string                `json:"order_number"`
		Status        string                `json:"status"`
		EstimatedTime string                `json:"estimated_time"`
		RiderName     string                `json:"rider_name"`
		Timeline      []models.TimelineStep `json:"timeline"`
	} `json:"data"`
}

func TestTrackOrder(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders/:id/tracking", TrackOrder(db))

	user := models.User{LineUserID: "U-tracking"}
	require.NoError(t, db.Create(&user).Error)

	now := time.Now()
	order := models.Order{
		OrderNumber:   "TP-TRACK1",
		UserID:        user.ID,
		DeliveryType:  models.DeliveryTypeFreeDelivery,
		Status:        models.OrderStatusCooking,
		EstimatedTime: "20 นาที",
		RiderName:     "สมชาย",
		ConfirmedAt:   &now,
		CookingAt:     &now,
	}
	require.NoError(t, db.Create(&order).Error)

	get := func(path string) (*httptest.ResponseRecorder, trackingResp) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp trackingResp
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		return w, resp
	}

	t.Run("by order number", func(t *testing.T) {
		w, resp := get("/api/orders/TP-TRACK1/tracking")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TP-TRACK1", resp.Data.OrderNumber)
		assert.Equal(t, "cooking", resp.Data.Status)
		assert.Equal(t, "20 นาที", resp.Data.EstimatedTime)
		require.Len(t, resp.Data.Timeline, 5)
		assert.True(t, resp.Data.Timeline[0].Completed)
		assert.True(t, resp.Data.Timeline[1].Completed)
		assert.True(t, resp.Data.Timeline[2].Completed)
		assert.False(t, resp.Data.Timeline[3].Completed)
		assert.Equal(t, "กำลังปรุง", resp.Data.Timeline[2].Label)
	})

	t.Run("by numeric id", func(t *testing.T) {
		w, resp := get(fmt.Sprintf("/api/orders/%d/tracking", order.ID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TP-TRACK1", resp.Data.OrderNumber)
	})

	t.Run("unknown order", func(t *testing.T) {
		w, _ := get("/api/orders/TP-MISSING/tracking")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadSlip(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("UPLOAD_DIR", t.TempDir())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders/:id/slip", UploadSlip(db))

	user := models.User{LineUserID: "U-slip"}
	require.NoError(t, db.Create(&user).Error)
	order := models.Order{
		OrderNumber:   "TP-SLIP01",
		UserID:        user.ID,
		DeliveryType:  models.DeliveryTypePickup,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(&order).Error)

	upload := func(path string, withFile bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if withFile {
			fw, err := mw.CreateFormFile("slip", "slip.jpg")
			require.NoError(t, err)
			_, err = fw.Write([]byte("fake image bytes"))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, path, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("upload moves payment to pending verification", func(t *testing.T) {
		w := upload(fmt.Sprintf("/api/orders/%d/slip", order.ID), true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated models.Order
		require.NoError(t, db.First(&updated, order.ID).Error)
		assert.Equal(t, models.PaymentStatusPendingVerification, updated.PaymentStatus)
		assert.Contains(t, updated.SlipImageURL, "/uploads/slips/")

		var n models.Notification
		require.NoError(t, db.Where("type = ?", models.NotificationPaymentReceived).First(&n).Error)
		assert.Contains(t, n.Message, "TP-SLIP01")
	})

	t.Run("missing file", func(t *testing.T) {
		w := upload(fmt.Sprintf("/api/orders/%d/slip", order.ID), false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := upload("/api/orders/9999/slip", true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
