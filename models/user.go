package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a login identity. AuthUID is the stable identifier carried in
// tokens and written on posts/reactions; role and member lookups key on it.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthUID      string             `bson:"auth_uid" json:"auth_uid"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Admin grants a user a privileged role label ("President", "Treasurer",
// ...). Its presence is also what makes posts show the role instead of the
// member name.
type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthUID   string             `bson:"auth_uid" json:"auth_uid"`
	RoleLabel string             `bson:"role_label" json:"role_label"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
