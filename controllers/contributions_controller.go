package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/hoa-backoffice-go/ledger"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

// ---------------- RECORD ----------------
func RecordContribution(l *ledger.ContributionLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			AccountNumber   string  `form:"account_number" binding:"required"`
			Recipient       string  `form:"recipient" binding:"required"`
			Amount          float64 `form:"amount"`
			TransactionDate string  `form:"transaction_date" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date, err := utils.ParseDate(input.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := ledger.RecordPaymentInput{
			AccountNumber:   input.AccountNumber,
			Recipient:       input.Recipient,
			Amount:          input.Amount,
			TransactionDate: date,
		}

		// optional payment proof
		if fileHeader, err := c.FormFile("proof"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			defer file.Close()
			in.Proof = file
			in.ProofHeader = fileHeader
		}

		contribution, err := l.RecordPayment(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, contribution)
	}
}

// ---------------- LIST BY MONTH ----------------
func ListContributionsByMonth(l *ledger.ContributionLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		monthYear := c.Query("month_year")
		if monthYear == "" {
			monthYear = utils.MonthYear(time.Now())
		}

		records, err := l.QueryMonth(c.Request.Context(), monthYear)
		if err != nil {
			respondError(c, err)
			return
		}
		if records == nil {
			records = []models.Contribution{}
		}

		paid, err := l.PaidMemberCount(c.Request.Context(), monthYear)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"month_year":   monthYear,
			"records":      records,
			"paid_members": paid,
		})
	}
}

// ---------------- YEAR SUMMARY ----------------
func ContributionYearSummary(l *ledger.ContributionLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}

		summary, err := l.AggregateYear(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
