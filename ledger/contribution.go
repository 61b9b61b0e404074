// Package ledger is the money core: contribution and expense records and
// the aggregates derived from them. All amounts are computed fresh from the
// ledger rows; nothing here persists a running balance.
package ledger

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/phillip/hoa-backoffice-go/apperr"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

// ContributionStore is the document-store surface the contribution ledger
// needs. FindMemberByAccount returns (nil, nil) when no member matches.
type ContributionStore interface {
	FindMemberByAccount(ctx context.Context, accountNumber string) (*models.Member, error)
	InsertContribution(ctx context.Context, c *models.Contribution) error
	ContributionsByMonthYear(ctx context.Context, monthYear string) ([]models.Contribution, error)
	ContributionsBetween(ctx context.Context, from, to time.Time) ([]models.Contribution, error)
	CountActiveMembers(ctx context.Context) (int, error)
}

// ProofUploader uploads a payment proof and returns its download URL.
type ProofUploader interface {
	UploadContributionProof(accountNumber string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

// ContributionSummary is one calendar year of dues activity.
type ContributionSummary struct {
	TotalCollections float64 `json:"total_collections"`
	PaidMembers      int     `json:"paid_members"`
	UnpaidMembers    int     `json:"unpaid_members"`
}

// ContributionLedger records dues payments and derives the month/year
// aggregates behind the dashboard.
type ContributionLedger struct {
	store    ContributionStore
	uploader ProofUploader
}

func NewContributionLedger(store ContributionStore, uploader ProofUploader) *ContributionLedger {
	return &ContributionLedger{store: store, uploader: uploader}
}

// RecordPaymentInput carries one payment event. Amount 0 means "use the
// member's default dues". Proof is optional.
type RecordPaymentInput struct {
	AccountNumber   string
	Recipient       string
	Amount          float64
	TransactionDate time.Time
	Proof           multipart.File
	ProofHeader     *multipart.FileHeader
}

// RecordPayment validates the payment, uploads the proof if one was
// attached, and writes the row. The row is only written after a successful
// upload; a failed upload leaves the ledger untouched.
func (l *ContributionLedger) RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Contribution, error) {
	if in.AccountNumber == "" {
		return nil, apperr.Validation("account_number", "required")
	}
	if in.Recipient == "" {
		return nil, apperr.Validation("recipient", "required")
	}
	if in.TransactionDate.IsZero() {
		return nil, apperr.Validation("transaction_date", "required")
	}

	member, err := l.store.FindMemberByAccount(ctx, in.AccountNumber)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Status == models.MemberStatusDeleted {
		return nil, apperr.ErrMemberNotFound
	}

	amount := in.Amount
	if amount == 0 {
		amount = member.DefaultDues
	}
	if amount <= 0 {
		return nil, apperr.Validation("amount", "must be greater than 0")
	}

	proofURL := ""
	if in.Proof != nil {
		proofURL, err = l.uploader.UploadContributionProof(in.AccountNumber, in.Proof, in.ProofHeader)
		if err != nil {
			filename := ""
			if in.ProofHeader != nil {
				filename = in.ProofHeader.Filename
			}
			return nil, &apperr.UploadError{Filename: filename, Err: err}
		}
	}

	contribution := &models.Contribution{
		AccountNumber:   in.AccountNumber,
		MemberName:      member.DisplayName(),
		Amount:          utils.Round2(amount),
		Recipient:       in.Recipient,
		MonthYear:       utils.MonthYear(in.TransactionDate),
		TransactionDate: in.TransactionDate,
		ProofURL:        proofURL,
		CreatedAt:       time.Now(),
	}
	if err := l.store.InsertContribution(ctx, contribution); err != nil {
		return nil, err
	}
	return contribution, nil
}

// QueryMonth returns all payments recorded against a month key such as
// "June 2025". Order is whatever the store returns.
func (l *ContributionLedger) QueryMonth(ctx context.Context, monthYear string) ([]models.Contribution, error) {
	if monthYear == "" {
		return nil, apperr.Validation("month_year", "required")
	}
	return l.store.ContributionsByMonthYear(ctx, monthYear)
}

// PaidMemberCount counts the distinct account numbers that paid anything in
// the given month. A member paying three times still counts once.
func (l *ContributionLedger) PaidMemberCount(ctx context.Context, monthYear string) (int, error) {
	records, err := l.store.ContributionsByMonthYear(ctx, monthYear)
	if err != nil {
		return 0, err
	}
	return distinctAccounts(records), nil
}

// AggregateYear sums the year's collections and derives the paid/unpaid
// member split. Unpaid is floored at zero so membership shrinking between
// snapshot and query never yields a negative count.
func (l *ContributionLedger) AggregateYear(ctx context.Context, year int) (*ContributionSummary, error) {
	from, to := utils.YearRange(year)
	records, err := l.store.ContributionsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, r := range records {
		total += r.Amount
	}

	active, err := l.store.CountActiveMembers(ctx)
	if err != nil {
		return nil, err
	}

	paid := distinctAccounts(records)
	unpaid := active - paid
	if unpaid < 0 {
		unpaid = 0
	}

	return &ContributionSummary{
		TotalCollections: utils.Round2(total),
		PaidMembers:      paid,
		UnpaidMembers:    unpaid,
	}, nil
}

func distinctAccounts(records []models.Contribution) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.AccountNumber] = struct{}{}
	}
	return len(seen)
}
