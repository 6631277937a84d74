package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	lms_errors "lms-api/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the application.
const (
	CoursesCollection = "courses"
	UsersCollection   = "users"
)

type MongoConfig struct {
	URI     string
	Name    string
	Timeout time.Duration
}

// Store is the process-wide document store handle. It is safe for concurrent use.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg MongoConfig) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout)
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{
		client:  client,
		db:      client.Database(cfg.Name),
		timeout: timeout,
	}, nil
}

func (s *Store) Collection(name string) *Collection {
	return &Collection{coll: s.db.Collection(name)}
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("%w: %v", lms_errors.ErrServiceUnavailable, err)
	}
	return nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Only used by integration tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// Collection is a thin wrapper over a mongo collection that speaks in string identifiers
// and the application's sentinel errors.
type Collection struct {
	coll *mongo.Collection
}

// FindAll decodes every document matching filter into out, which must be a pointer to a slice.
func (c *Collection) FindAll(ctx context.Context, filter interface{}, projection interface{}, out interface{}) error {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// FindOne decodes the first matching document into out or returns ErrNotFound.
func (c *Collection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := c.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return lms_errors.ErrNotFound
	}
	return err
}

// InsertOne stores doc and returns the generated identifier as a string.
func (c *Collection) InsertOne(ctx context.Context, doc interface{}) (string, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", lms_errors.ErrConflict
		}
		return "", err
	}
	return IDString(res.InsertedID), nil
}

// UpdateOne applies $set to the first matching document and returns the matched count.
// It never upserts.
func (c *Collection) UpdateOne(ctx context.Context, filter interface{}, set interface{}) (int64, error) {
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, lms_errors.ErrConflict
		}
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOne removes the first matching document and returns the deleted count.
func (c *Collection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *Collection) Count(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return c.coll.CountDocuments(ctx, filter)
}

// DeleteAll empties the collection and returns how many documents were removed.
func (c *Collection) DeleteAll(ctx context.Context) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureUniqueIndex creates an ascending unique index on field if it does not exist yet.
func (c *Collection) EnsureUniqueIndex(ctx context.Context, field string) (string, error) {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_" + field),
	}
	return c.coll.Indexes().CreateOne(ctx, model)
}

// ParseID converts the wire representation of an identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, lms_errors.ErrInvalidIdentifier
	}
	return oid, nil
}

// ValidateID reports ErrInvalidIdentifier when id is not a well-formed identifier.
func ValidateID(id string) error {
	_, err := ParseID(id)
	return err
}

// ByID builds an _id filter from a string identifier.
func ByID(id string) (bson.M, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid}, nil
}

// NewID returns a fresh identifier in its string form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IDString renders a store identifier as a string.
func IDString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
