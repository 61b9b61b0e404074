package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/hoa-backoffice-go/ledger"
)

func yearParam(c *gin.Context) (int, bool) {
	raw := c.Param("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, false
	}
	return year, true
}

// ---------------- MONTHLY SERIES ----------------
func FinanceMonthlySeries(a *ledger.BalanceAggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, ok := yearParam(c)
		if !ok {
			return
		}

		buckets, err := a.MonthlyTimeSeries(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"year": year, "months": buckets})
	}
}

// ---------------- YEAR SUMMARY ----------------
func FinanceYearSummary(a *ledger.BalanceAggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, ok := yearParam(c)
		if !ok {
			return
		}

		summary, err := a.YearSummary(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
