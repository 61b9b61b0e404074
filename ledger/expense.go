package ledger

import (
	"context"
	"math"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/apperr"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

// ExpenseStore is the document-store surface the expense ledger needs.
// FindExpense returns (nil, nil) when no row matches.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, e *models.Expense) error
	FindExpense(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	ReplaceExpense(ctx context.Context, e *models.Expense) error
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ExpensesBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error)
}

// ReceiptUploader uploads an expense receipt and returns its download URL.
type ReceiptUploader interface {
	UploadExpenseReceipt(file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

// ExpenseLedger records outflows and derives per-year totals.
type ExpenseLedger struct {
	store    ExpenseStore
	uploader ReceiptUploader
}

func NewExpenseLedger(store ExpenseStore, uploader ReceiptUploader) *ExpenseLedger {
	return &ExpenseLedger{store: store, uploader: uploader}
}

// ExpenseInput carries one expense write. Receipt is optional.
type ExpenseInput struct {
	Purpose         string
	Amount          float64
	TransactionDate time.Time
	Receipt         multipart.File
	ReceiptHeader   *multipart.FileHeader
}

func (in ExpenseInput) validate() error {
	if in.Purpose == "" {
		return apperr.Validation("purpose", "required")
	}
	if in.Amount <= 0 {
		return apperr.Validation("amount", "must be greater than 0")
	}
	if in.TransactionDate.IsZero() {
		return apperr.Validation("transaction_date", "required")
	}
	return nil
}

// RecordExpense uploads the receipt first when one is attached, then writes
// the row. A failed upload writes nothing.
func (l *ExpenseLedger) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	receiptURL := ""
	if in.Receipt != nil {
		uploaded, err := l.uploader.UploadExpenseReceipt(in.Receipt, in.ReceiptHeader)
		if err != nil {
			filename := ""
			if in.ReceiptHeader != nil {
				filename = in.ReceiptHeader.Filename
			}
			return nil, &apperr.UploadError{Filename: filename, Err: err}
		}
		receiptURL = uploaded
	}

	now := time.Now()
	expense := &models.Expense{
		Purpose:         in.Purpose,
		Amount:          utils.Round2(in.Amount),
		TransactionDate: in.TransactionDate,
		ReceiptURL:      receiptURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := l.store.InsertExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces purpose, amount and date, and swaps in a new
// receipt only when one was supplied. The previous blob is deliberately not
// deleted when replaced: old links in exported reports stay alive, at the
// cost of an orphaned file.
func (l *ExpenseLedger) UpdateExpense(ctx context.Context, id primitive.ObjectID, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := l.store.FindExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.ErrNotFound
	}

	receiptURL := existing.ReceiptURL
	if in.Receipt != nil {
		uploaded, err := l.uploader.UploadExpenseReceipt(in.Receipt, in.ReceiptHeader)
		if err != nil {
			filename := ""
			if in.ReceiptHeader != nil {
				filename = in.ReceiptHeader.Filename
			}
			return nil, &apperr.UploadError{Filename: filename, Err: err}
		}
		receiptURL = uploaded
	}

	existing.Purpose = in.Purpose
	existing.Amount = utils.Round2(in.Amount)
	existing.TransactionDate = in.TransactionDate
	existing.ReceiptURL = receiptURL
	existing.UpdatedAt = time.Now()

	if err := l.store.ReplaceExpense(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListExpenses returns every expense row.
func (l *ExpenseLedger) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return l.store.ListExpenses(ctx)
}

// AggregateYear sums the year's expenses. Rows with a missing, negative or
// non-numeric amount contribute nothing instead of failing the aggregate.
func (l *ExpenseLedger) AggregateYear(ctx context.Context, year int) (float64, error) {
	from, to := utils.YearRange(year)
	records, err := l.store.ExpensesBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, r := range records {
		if math.IsNaN(r.Amount) || r.Amount <= 0 {
			continue
		}
		total += r.Amount
	}
	return utils.Round2(total), nil
}
