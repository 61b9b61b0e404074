// Package store is the MongoDB implementation of the ledger and feed store
// interfaces. All collection names and document shapes are decided here;
// services above it only see decoded models.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/hoa-backoffice-go/models"
)

// Collection names.
const (
	colMembers       = "members"
	colContributions = "contributions"
	colExpenses      = "expenses"
	colPosts         = "posts"
	colPostComments  = "post_comments"
	colPostReacts    = "post_reacts"
	colAdmins        = "admins"
	colUsers         = "users"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

func NewMongoStore(client *mongo.Client, dbName string, log zerolog.Logger) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		log:    log,
	}
}

// ---------------- members ----------------

func (s *MongoStore) FindMemberByAccount(ctx context.Context, accountNumber string) (*models.Member, error) {
	var member models.Member
	err := s.db.Collection(colMembers).FindOne(ctx, bson.M{"account_number": accountNumber}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *MongoStore) FindMemberByUID(ctx context.Context, uid string) (*models.Member, error) {
	var member models.Member
	err := s.db.Collection(colMembers).FindOne(ctx, bson.M{"auth_uid": uid}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// CountActiveMembers counts every member except those marked Deleted.
// Inactive and New members still owe dues, so they stay in the denominator.
func (s *MongoStore) CountActiveMembers(ctx context.Context) (int, error) {
	n, err := s.db.Collection(colMembers).CountDocuments(ctx, bson.M{
		"status": bson.M{"$ne": models.MemberStatusDeleted},
	})
	return int(n), err
}

func (s *MongoStore) InsertMember(ctx context.Context, m *models.Member) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(colMembers).InsertOne(ctx, m)
	return err
}

func (s *MongoStore) GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := s.db.Collection(colMembers).FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers returns members, excluding Deleted ones unless asked for.
func (s *MongoStore) ListMembers(ctx context.Context, includeDeleted bool) ([]models.Member, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["status"] = bson.M{"$ne": models.MemberStatusDeleted}
	}
	cursor, err := s.db.Collection(colMembers).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberFields applies a partial update built by the controller.
func (s *MongoStore) UpdateMemberFields(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	res, err := s.db.Collection(colMembers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDeleteMember flips the status to Deleted. The row stays so ledger
// history keeps resolving names; every membership count excludes it.
func (s *MongoStore) SoftDeleteMember(ctx context.Context, id primitive.ObjectID) error {
	return s.UpdateMemberFields(ctx, id, bson.M{"status": models.MemberStatusDeleted})
}

// ---------------- contributions ----------------

func (s *MongoStore) InsertContribution(ctx context.Context, c *models.Contribution) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(colContributions).InsertOne(ctx, c)
	return err
}

func (s *MongoStore) ContributionsByMonthYear(ctx context.Context, monthYear string) ([]models.Contribution, error) {
	cursor, err := s.db.Collection(colContributions).Find(ctx, bson.M{"month_year": monthYear})
	if err != nil {
		return nil, err
	}
	var records []models.Contribution
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoStore) ContributionsBetween(ctx context.Context, from, to time.Time) ([]models.Contribution, error) {
	cursor, err := s.db.Collection(colContributions).Find(ctx, bson.M{
		"transaction_date": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, err
	}
	var records []models.Contribution
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ---------------- expenses ----------------

func (s *MongoStore) InsertExpense(ctx context.Context, e *models.Expense) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(colExpenses).InsertOne(ctx, e)
	return err
}

func (s *MongoStore) FindExpense(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Collection(colExpenses).FindOne(ctx, bson.M{"_id": id}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *MongoStore) ReplaceExpense(ctx context.Context, e *models.Expense) error {
	res, err := s.db.Collection(colExpenses).ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	cursor, err := s.db.Collection(colExpenses).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var records []models.Expense
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoStore) ExpensesBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	cursor, err := s.db.Collection(colExpenses).Find(ctx, bson.M{
		"transaction_date": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, err
	}
	var records []models.Expense
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ---------------- users / admins ----------------

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(colUsers).InsertOne(ctx, u)
	return err
}

func (s *MongoStore) FindAdminByUID(ctx context.Context, uid string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.Collection(colAdmins).FindOne(ctx, bson.M{"auth_uid": uid}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
