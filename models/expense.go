package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense is an outflow row. Unlike contributions these are mutable:
// purpose, amount, date and receipt may all be replaced after the fact.
type Expense struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Purpose         string             `bson:"purpose" json:"purpose"`
	Amount          float64            `bson:"amount" json:"amount"`
	TransactionDate time.Time          `bson:"transaction_date" json:"transaction_date"`
	ReceiptURL      string             `bson:"receipt_url" json:"receipt_url"` // "" when no receipt attached
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
