package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

const usersCollection = "users"

// UserRepository is the MongoDB-backed implementation of
// repository.UserRepository.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepository over the given database.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create inserts a new user and sets the generated ID on the struct.
// Returns repository.ErrDuplicateEmail when the unique email index rejects
// the write.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID. A syntactically invalid ID is treated as
// a missing user.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	user := &model.User{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by exact email match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies a partial profile update and returns the updated
// document.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update model.UpdateUserRequest) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.FirstName != nil {
		set["fname"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lname"] = *update.LastName
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.ProfilePic != nil {
		set["profilePic"] = *update.ProfilePic
	}

	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

// UpdateSkills replaces the user's skills array.
func (r *UserRepository) UpdateSkills(ctx context.Context, id string, skills []model.Skill) error {
	return r.setFields(ctx, id, bson.M{"skills": skills})
}

// UpdateExperiences replaces the user's experiences array.
func (r *UserRepository) UpdateExperiences(ctx context.Context, id string, experiences []model.Experience) error {
	return r.setFields(ctx, id, bson.M{"experiences": experiences})
}

// SetPassword stores a new password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password": passwordHash})
}

// SetRefreshToken stores the hash of the latest refresh token, overwriting
// any previous value.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id, tokenHash string) error {
	return r.setFields(ctx, id, bson.M{"refreshToken": tokenHash})
}

// AddPostRef appends a post reference to the user's posts array.
func (r *UserRepository) AddPostRef(ctx context.Context, userID, postID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrUserNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return repository.ErrPostNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$push": bson.M{"posts": pid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Delete removes a user document. Owned posts and comments are not
// cascaded.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrUserNotFound
	}

	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	user := &model.User{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
