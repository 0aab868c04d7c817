package adminController

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type reportSummary struct {
	TotalOrders     int64   `json:"total_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalDiscount   float64 `json:"total_discount"`
}

type reportHourly struct {
	Hour       int     `json:"hour"`
	OrderCount int64   `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

type reportTopItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type reportDelivery struct {
	DeliveryType string  `json:"delivery_type"`
	Count        int64   `json:"count"`
	Revenue      float64 `json:"revenue"`
}

func loadDailyReport(db *gorm.DB, date string) (reportSummary, []reportHourly, []reportTopItem, []reportDelivery, error) {
	var summary reportSummary
	if err := db.Raw(`
		SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_orders,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_orders,
			COALESCE(SUM(total) FILTER (WHERE status != 'cancelled'), 0) AS total_revenue,
			COALESCE(SUM(discount) FILTER (WHERE status != 'cancelled'), 0) AS total_discount
		FROM orders
		WHERE DATE(created_at) = ?
	`, date).Scan(&summary).Error; err != nil {
		return summary, nil, nil, nil, err
	}

	var hourly []reportHourly
	if err := db.Raw(`
		SELECT
			EXTRACT(HOUR FROM created_at) AS hour,
			COUNT(*) AS order_count,
			COALESCE(SUM(total), 0) AS revenue
		FROM orders
		WHERE DATE(created_at) = ? AND status != 'cancelled'
		GROUP BY EXTRACT(HOUR FROM created_at)
		ORDER BY hour
	`, date).Scan(&hourly).Error; err != nil {
		return summary, nil, nil, nil, err
	}

	var topItems []reportTopItem
	if err := db.Raw(`
		SELECT
			oi.name,
			SUM(oi.quantity) AS quantity,
			SUM(oi.subtotal) AS revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE DATE(o.created_at) = ? AND o.status != 'cancelled'
		GROUP BY oi.name
		ORDER BY quantity DESC
		LIMIT 10
	`, date).Scan(&topItems).Error; err != nil {
		return summary, nil, nil, nil, err
	}

	var delivery []reportDelivery
	if err := db.Raw(`
		SELECT
			delivery_type,
			COUNT(*) AS count,
			COALESCE(SUM(total), 0) AS revenue
		FROM orders
		WHERE DATE(created_at) = ? AND status != 'cancelled'
		GROUP BY delivery_type
	`, date).Scan(&delivery).Error; err != nil {
		return summary, nil, nil, nil, err
	}

	return summary, hourly, topItems, delivery, nil
}

// GET /api/admin/reports/daily
func GetDailyReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

		summary, hourly, topItems, delivery, err := loadDailyReport(db, date)
		if err != nil {
			log.Println("❌ Daily report error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate report"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"date":              date,
				"summary":           summary,
				"hourly":            hourly,
				"topItems":          topItems,
				"deliveryBreakdown": delivery,
			},
		})
	}
}

// GET /api/admin/reports/summary (last 7 days)
func GetSummaryReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []struct {
			Date       string  `json:"date"`
			OrderCount int64   `json:"order_count"`
			Revenue    float64 `json:"revenue"`
		}
		if err := db.Raw(`
			SELECT
				DATE(created_at) AS date,
				COUNT(*) AS order_count,
				COALESCE(SUM(total), 0) AS revenue
			FROM orders
			WHERE created_at >= CURRENT_DATE - INTERVAL '7 days'
			  AND status != 'cancelled'
			GROUP BY DATE(created_at)
			ORDER BY date DESC
		`).Scan(&rows).Error; err != nil {
			log.Println("❌ Summary report error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate report"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}

// GET /api/admin/reports/daily/export
// Writes the daily report as an Excel workbook for the back office.
func ExportDailyReportExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

		summary, hourly, topItems, delivery, err := loadDailyReport(db, date)
		if err != nil {
			log.Println("❌ Report export error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate report"})
			return
		}

		file := xlsx.NewFile()

		sheet, err := file.AddSheet("Summary")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create Excel sheet"})
			return
		}
		headerRow := sheet.AddRow()
		for _, h := range []string{"Date", "TotalOrders", "Completed", "Cancelled", "Revenue", "Discount"} {
			headerRow.AddCell().SetValue(h)
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(date)
		row.AddCell().SetValue(summary.TotalOrders)
		row.AddCell().SetValue(summary.CompletedOrders)
		row.AddCell().SetValue(summary.CancelledOrders)
		row.AddCell().SetValue(summary.TotalRevenue)
		row.AddCell().SetValue(summary.TotalDiscount)

		hourSheet, err := file.AddSheet("Hourly")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create Excel sheet"})
			return
		}
		headerRow = hourSheet.AddRow()
		for _, h := range []string{"Hour", "Orders", "Revenue"} {
			headerRow.AddCell().SetValue(h)
		}
		for _, hr := range hourly {
			row := hourSheet.AddRow()
			row.AddCell().SetValue(hr.Hour)
			row.AddCell().SetValue(hr.OrderCount)
			row.AddCell().SetValue(hr.Revenue)
		}

		itemSheet, err := file.AddSheet("Top Items")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create Excel sheet"})
			return
		}
		headerRow = itemSheet.AddRow()
		for _, h := range []string{"Name", "Quantity", "Revenue"} {
			headerRow.AddCell().SetValue(h)
		}
		for _, item := range topItems {
			row := itemSheet.AddRow()
			row.AddCell().SetValue(item.Name)
			row.AddCell().SetValue(item.Quantity)
			row.AddCell().SetValue(item.Revenue)
		}

		deliverySheet, err := file.AddSheet("Delivery")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create Excel sheet"})
			return
		}
		headerRow = deliverySheet.AddRow()
		for _, h := range []string{"DeliveryType", "Orders", "Revenue"} {
			headerRow.AddCell().SetValue(h)
		}
		for _, d := range delivery {
			row := deliverySheet.AddRow()
			row.AddCell().SetValue(d.DeliveryType)
			row.AddCell().SetValue(d.Count)
			row.AddCell().SetValue(d.Revenue)
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=daily-report-%s.xlsx", date))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.Println("❌ Report export error:", err)
		}
	}
}
