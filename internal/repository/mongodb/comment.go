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

const commentsCollection = "comments"

// CommentRepository is the MongoDB-backed implementation of
// repository.CommentRepository.
type CommentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository creates a CommentRepository over the given database.
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentsCollection)}
}

// Create inserts a new comment and sets the generated ID on the struct.
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()

	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

// GetByID retrieves a comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrCommentNotFound
	}

	comment := &model.Comment{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// ListByPost returns all comments on the given post.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return []model.Comment{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"post": pid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent replaces a comment's content and returns the updated
// document. Author and post references are never touched.
func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrCommentNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	comment := &model.Comment{}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"content": content}}, opts).Decode(comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment document.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrCommentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}
