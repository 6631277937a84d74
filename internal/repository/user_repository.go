package repository

import (
	"context"

	"lms-api/internal/domain/user"
	"lms-api/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

type MongoUserRepository struct {
	users *database.Collection
}

func NewUserRepository(store *database.Store) UserRepository {
	return &MongoUserRepository{users: store.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, u *user.User) error {
	id, err := r.users.InsertOne(ctx, userDocument{
		Username: u.Username,
		Email:    u.Email,
		Password: u.PasswordHash,
	})
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// EnsureIndexes creates the unique indexes that back registration's uniqueness checks.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	for _, field := range []string{"email", "username"} {
		if _, err := r.users.EnsureUniqueIndex(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.users.Count(ctx, nil)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter, &doc); err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.Password,
	}, nil
}
