package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post media types accepted on upload.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post is a feed entry. ReactsCount and CommentsCount are denormalized
// caches of the post_reacts and post_comments child rows; they are only
// ever mutated inside the transaction that also mutates the child row.
type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID      string             `bson:"author_id" json:"author_id"` // auth uid
	AuthorName    string             `bson:"author_name" json:"author_name"`
	AuthorPhoto   string             `bson:"author_photo" json:"author_photo"`
	Category      string             `bson:"category" json:"category"`
	Content       string             `bson:"content" json:"content"`
	MediaURL      string             `bson:"media_url" json:"media_url"`
	MediaType     string             `bson:"media_type" json:"media_type"` // image, video or ""
	CommentsCount int                `bson:"comments_count" json:"comments_count"`
	ReactsCount   int                `bson:"reacts_count" json:"reacts_count"`
	Pinned        bool               `bson:"pinned" json:"pinned"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// Reaction marks that a user has reacted to a post. At most one exists per
// (post, user) pair; the document's presence IS the reacted state, there is
// no boolean flag anywhere.
type Reaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID     primitive.ObjectID `bson:"post_id" json:"post_id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	PhotoURL   string             `bson:"photo_url" json:"photo_url"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Comment is append-only; there is no edit or delete path short of the
// whole post being removed.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID     primitive.ObjectID `bson:"post_id" json:"post_id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Content    string             `bson:"content" json:"content"`
	PhotoURL   string             `bson:"photo_url" json:"photo_url"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
