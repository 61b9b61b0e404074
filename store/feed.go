package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/hoa-backoffice-go/apperr"
	"github.com/phillip/hoa-backoffice-go/feed"
	"github.com/phillip/hoa-backoffice-go/models"
)

// RunTransaction runs fn inside a Mongo multi-document transaction.
// WithTransaction retries the callback on transient errors and the commit
// on unknown commit results, so fn re-executes from its first read on
// write conflict; a conflict that survives the retry window surfaces as an
// apperr.ConflictError.
func (s *MongoStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx feed.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoTx{s: s})
	})
	if err == nil {
		return nil
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.HasErrorLabel("TransientTransactionError") ||
		cmdErr.HasErrorLabel("UnknownTransactionCommitResult")) {
		s.log.Error().Err(err).Msg("transaction conflict after retries")
		return &apperr.ConflictError{Op: "feed transaction", Err: err}
	}
	return err
}

// mongoTx executes feed.Tx operations against the session context it is
// handed, so everything lands in the surrounding transaction.
type mongoTx struct {
	s *MongoStore
}

func (t *mongoTx) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	return t.s.GetPost(ctx, postID)
}

func (t *mongoTx) FindReaction(ctx context.Context, postID primitive.ObjectID, userID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := t.s.db.Collection(colPostReacts).
		FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).
		Decode(&reaction)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (t *mongoTx) InsertReaction(ctx context.Context, r *models.Reaction) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := t.s.db.Collection(colPostReacts).InsertOne(ctx, r)
	return err
}

func (t *mongoTx) DeleteReaction(ctx context.Context, postID primitive.ObjectID, userID string) error {
	_, err := t.s.db.Collection(colPostReacts).DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	return err
}

func (t *mongoTx) InsertComment(ctx context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := t.s.db.Collection(colPostComments).InsertOne(ctx, c)
	return err
}

func (t *mongoTx) IncrementCounts(ctx context.Context, postID primitive.ObjectID, reactsDelta, commentsDelta int) error {
	inc := bson.M{}
	if reactsDelta != 0 {
		inc["reacts_count"] = reactsDelta
	}
	if commentsDelta != 0 {
		inc["comments_count"] = commentsDelta
	}
	if len(inc) == 0 {
		return nil
	}
	_, err := t.s.db.Collection(colPosts).UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (t *mongoTx) DeletePostTree(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := t.s.db.Collection(colPostComments).DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return err
	}
	if _, err := t.s.db.Collection(colPostReacts).DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return err
	}
	_, err := t.s.db.Collection(colPosts).DeleteOne(ctx, bson.M{"_id": postID})
	return err
}

// ---------------- posts (outside transactions) ----------------

func (s *MongoStore) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.db.Collection(colPosts).FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) InsertPost(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(colPosts).InsertOne(ctx, p)
	return err
}

// UpdatePostFields edits the presentational fields only. The counter
// fields have no write path here; they belong to the transaction ops.
func (s *MongoStore) UpdatePostFields(ctx context.Context, postID primitive.ObjectID, content, category *string, pinned *bool) error {
	update := bson.M{"updated_at": time.Now()}
	if content != nil {
		update["content"] = *content
	}
	if category != nil {
		update["category"] = *category
	}
	if pinned != nil {
		update["pinned"] = *pinned
	}
	res, err := s.db.Collection(colPosts).UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoStore) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "pinned", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := s.db.Collection(colPosts).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoStore) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(colPostComments).Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
