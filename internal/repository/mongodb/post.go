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

const postsCollection = "posts"

// PostRepository is the MongoDB-backed implementation of
// repository.PostRepository.
type PostRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a PostRepository over the given database.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

// Create inserts a new post and sets the generated ID on the struct.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}

	_, err := r.coll.InsertOne(ctx, post)
	return err
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrPostNotFound
	}

	post := &model.Post{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// List returns all posts.
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies a partial update and returns the updated document.
// The author field is never touched here.
func (r *PostRepository) Update(ctx context.Context, id string, update model.UpdatePostRequest) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrPostNotFound
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	post := &model.Post{}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// AddCommentRef appends a comment reference to the post's comments array.
func (r *PostRepository) AddCommentRef(ctx context.Context, postID, commentID string) error {
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return repository.ErrPostNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return repository.ErrCommentNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": pid}, bson.M{"$push": bson.M{"comments": cid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

// Delete removes a post document. Its comments are not cascaded.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}
