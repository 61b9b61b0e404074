package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is a single dues payment. Rows are immutable once written;
// there is no update or delete path. MonthYear is denormalized from
// TransactionDate at write time so month screens can use an equality filter
// instead of a range query.
type Contribution struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountNumber   string             `bson:"account_number" json:"account_number"`
	MemberName      string             `bson:"member_name" json:"member_name"`
	Amount          float64            `bson:"amount" json:"amount"`
	Recipient       string             `bson:"recipient" json:"recipient"`
	MonthYear       string             `bson:"month_year" json:"month_year"` // e.g. "June 2025"
	TransactionDate time.Time          `bson:"transaction_date" json:"transaction_date"`
	ProofURL        string             `bson:"proof_url" json:"proof_url"` // "" when no proof attached
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
