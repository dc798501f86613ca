package controllers

import (
	"net/http"
	"strconv"
	"time"

	"storefront/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reports services.ReportService
}

func NewReportController(reports services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// SalesSummary reports orders and revenue between ?from= and ?to=
// (RFC 3339); defaults to the last 30 days
func (rc *ReportController) SalesSummary(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp"})
			return
		}
		to = &t
	}

	summary, svcErr := rc.reports.GetSalesSummary(c.Request.Context(), from, to)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TopProducts lists best sellers by quantity, default limit 10
func (rc *ReportController) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rows, svcErr := rc.reports.GetTopProducts(c.Request.Context(), limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// LowStock lists products below the stock threshold, default 5
func (rc *ReportController) LowStock(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", "5"))

	rows, svcErr := rc.reports.GetLowStock(c.Request.Context(), threshold)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, rows)
}
