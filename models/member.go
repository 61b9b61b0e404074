package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member statuses. Deleted members stay in the collection so old ledger
// rows keep resolving, but they are excluded from every membership count.
const (
	MemberStatusActive   = "Active"
	MemberStatusInactive = "Inactive"
	MemberStatusNew      = "New"
	MemberStatusDeleted  = "Deleted"
)

type Member struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountNumber string             `bson:"account_number" json:"account_number"`
	Surname       string             `bson:"surname" json:"surname"`
	FirstName     string             `bson:"first_name" json:"first_name"`
	MiddleName    string             `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	AuthUID       string             `bson:"auth_uid,omitempty" json:"auth_uid,omitempty"`
	Status        string             `bson:"status" json:"status"` // Active, Inactive, New, Deleted
	DefaultDues   float64            `bson:"default_dues" json:"default_dues"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// DisplayName joins the non-empty name parts in surname, first, middle order.
func (m Member) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Surname, m.FirstName, m.MiddleName} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
