package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Messages == nil {
		user.Messages = []domain.Message{}
	}
	if user.Products == nil {
		user.Products = []primitive.ObjectID{}
	}

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByIdentifier matches either the username or the email field.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}})
}

func (r *UserRepository) FindVerifiedByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "is_verified": true})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// UpdateCredentials overwrites the password hash and verification code of an
// existing account. Used when an unverified sign-up is retried.
func (r *UserRepository) UpdateCredentials(ctx context.Context, id string, passwordHash, verifyCode string, codeExpiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash":      passwordHash,
		"verify_code":        verifyCode,
		"verify_code_expiry": codeExpiry.UTC(),
	}})
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_verified": true}})
}

// SetAcceptingMessages is a single conditional update; concurrent toggles
// cannot lose writes the way a load-mutate-save would.
func (r *UserRepository) SetAcceptingMessages(ctx context.Context, id string, accepting bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_accepting_messages": accepting}})
}

// PushMessage appends one message with the store's atomic array push.
func (r *UserRepository) PushMessage(ctx context.Context, id string, msg domain.Message) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"messages": msg}})
}

// PullMessage removes one embedded message by id. A message id that matches
// nothing still succeeds; only an unknown user is an error.
func (r *UserRepository) PullMessage(ctx context.Context, id, messageID string) error {
	mid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		// malformed id can match nothing; same outcome as an absent id
		return nil
	}
	return r.updateByID(ctx, id, bson.M{"$pull": bson.M{"messages": bson.M{"_id": mid}}})
}

// PushProductRef records a product reference on the owner's document.
func (r *UserRepository) PushProductRef(ctx context.Context, id, productID string) error {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return domain.ErrProductNotFound
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"products": pid}})
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListMessages returns the embedded messages newest-first via the
// unwind-sort-group pipeline. A user with an empty inbox still matches and
// yields an empty ordered sequence.
func (r *UserRepository) ListMessages(ctx context.Context, id string) ([]domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$messages"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "messages.created_at", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "messages", Value: bson.D{{Key: "$push", Value: "$messages"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Messages []domain.Message   `bson:"messages"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return compactMessages(rows[0].Messages), nil
}

// compactMessages drops the placeholder element produced when the unwind
// preserved an empty array, so an empty inbox decodes to an empty slice.
func compactMessages(in []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(in))
	for _, m := range in {
		if !m.ID.IsZero() {
			out = append(out, m)
		}
	}
	return out
}

// EnsureIndexes creates the partial unique indexes guaranteeing username and
// email uniqueness among verified users.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	verified := bson.D{{Key: "is_verified", Value: true}}
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(verified),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(verified),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
