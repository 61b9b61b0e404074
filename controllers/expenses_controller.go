package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/ledger"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

func bindExpenseInput(c *gin.Context) (ledger.ExpenseInput, bool) {
	var input struct {
		Purpose         string  `form:"purpose" binding:"required"`
		Amount          float64 `form:"amount" binding:"required"`
		TransactionDate string  `form:"transaction_date" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ledger.ExpenseInput{}, false
	}

	date, err := utils.ParseDate(input.TransactionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ledger.ExpenseInput{}, false
	}

	in := ledger.ExpenseInput{
		Purpose:         input.Purpose,
		Amount:          input.Amount,
		TransactionDate: date,
	}

	// optional receipt
	if fileHeader, err := c.FormFile("receipt"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return ledger.ExpenseInput{}, false
		}
		in.Receipt = file
		in.ReceiptHeader = fileHeader
	}
	return in, true
}

// ---------------- RECORD ----------------
func RecordExpense(l *ledger.ExpenseLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindExpenseInput(c)
		if !ok {
			return
		}
		if in.Receipt != nil {
			defer in.Receipt.Close()
		}

		expense, err := l.RecordExpense(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, expense)
	}
}

// ---------------- UPDATE ----------------
func UpdateExpense(l *ledger.ExpenseLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
			return
		}

		in, ok := bindExpenseInput(c)
		if !ok {
			return
		}
		if in.Receipt != nil {
			defer in.Receipt.Close()
		}

		expense, err := l.UpdateExpense(c.Request.Context(), oid, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, expense)
	}
}

// ---------------- LIST ----------------
func ListExpenses(l *ledger.ExpenseLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := l.ListExpenses(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if len(records) == 0 {
			c.JSON(http.StatusOK, []models.Expense{})
			return
		}

		// --- Pick the most recently updated expense ---
		latest := records[0]
		for _, e := range records {
			if e.UpdatedAt.After(latest.UpdatedAt) {
				latest = e
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, records)
	}
}

// ---------------- YEAR TOTAL ----------------
func ExpenseYearTotal(l *ledger.ExpenseLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}

		total, err := l.AggregateYear(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"year": year, "total_expenses": total})
	}
}
