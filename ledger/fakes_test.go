package ledger

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/models"
)

// fakeContributionStore backs contribution ledger tests with slices.
type fakeContributionStore struct {
	members       map[string]models.Member // by account number
	contributions []models.Contribution
}

func newFakeContributionStore() *fakeContributionStore {
	return &fakeContributionStore{members: make(map[string]models.Member)}
}

func (f *fakeContributionStore) addMember(account, surname, first, middle, status string, dues float64) {
	f.members[account] = models.Member{
		ID:            primitive.NewObjectID(),
		AccountNumber: account,
		Surname:       surname,
		FirstName:     first,
		MiddleName:    middle,
		Status:        status,
		DefaultDues:   dues,
	}
}

func (f *fakeContributionStore) FindMemberByAccount(_ context.Context, accountNumber string) (*models.Member, error) {
	if m, ok := f.members[accountNumber]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeContributionStore) InsertContribution(_ context.Context, c *models.Contribution) error {
	c.ID = primitive.NewObjectID()
	f.contributions = append(f.contributions, *c)
	return nil
}

func (f *fakeContributionStore) ContributionsByMonthYear(_ context.Context, monthYear string) ([]models.Contribution, error) {
	var out []models.Contribution
	for _, c := range f.contributions {
		if c.MonthYear == monthYear {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContributionStore) ContributionsBetween(_ context.Context, from, to time.Time) ([]models.Contribution, error) {
	var out []models.Contribution
	for _, c := range f.contributions {
		if !c.TransactionDate.Before(from) && c.TransactionDate.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContributionStore) CountActiveMembers(_ context.Context) (int, error) {
	n := 0
	for _, m := range f.members {
		if m.Status != models.MemberStatusDeleted {
			n++
		}
	}
	return n, nil
}

// fakeExpenseStore backs expense ledger tests.
type fakeExpenseStore struct {
	expenses []models.Expense
}

func (f *fakeExpenseStore) InsertExpense(_ context.Context, e *models.Expense) error {
	e.ID = primitive.NewObjectID()
	f.expenses = append(f.expenses, *e)
	return nil
}

func (f *fakeExpenseStore) FindExpense(_ context.Context, id primitive.ObjectID) (*models.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeExpenseStore) ReplaceExpense(_ context.Context, e *models.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == e.ID {
			f.expenses[i] = *e
			return nil
		}
	}
	return errors.New("no such expense")
}

func (f *fakeExpenseStore) ListExpenses(_ context.Context) ([]models.Expense, error) {
	return append([]models.Expense(nil), f.expenses...), nil
}

func (f *fakeExpenseStore) ExpensesBetween(_ context.Context, from, to time.Time) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range f.expenses {
		if !e.TransactionDate.Before(from) && e.TransactionDate.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	url     string
	err     error
	uploads int
}

func (f *fakeUploader) UploadContributionProof(string, multipart.File, *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return f.url, nil
}

func (f *fakeUploader) UploadExpenseReceipt(multipart.File, *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return f.url, nil
}

// nopFile satisfies multipart.File for upload-path tests.
type nopFile struct{}

func (nopFile) Read([]byte) (int, error)          { return 0, io.EOF }
func (nopFile) ReadAt([]byte, int64) (int, error) { return 0, io.EOF }
func (nopFile) Seek(int64, int) (int64, error)    { return 0, nil }
func (nopFile) Close() error                      { return nil }
