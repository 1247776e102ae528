// Package repository defines the persistence interfaces consumed by the
// service layer. The MongoDB implementations live in the mongodb
// subpackage; tests substitute in-memory fakes.
package repository

import (
	"context"
	"errors"

	"github.com/devconnect/devconnect-go/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// UserRepository handles user persistence. Writes touching a single user
// document are atomic; there are no cross-document transactions.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id string, update model.UpdateUserRequest) (*model.User, error)
	UpdateSkills(ctx context.Context, id string, skills []model.Skill) error
	UpdateExperiences(ctx context.Context, id string, experiences []model.Experience) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetRefreshToken(ctx context.Context, id, tokenHash string) error
	AddPostRef(ctx context.Context, userID, postID string) error
	Delete(ctx context.Context, id string) error
}

// PostRepository handles post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, id string, update model.UpdatePostRequest) (*model.Post, error)
	AddCommentRef(ctx context.Context, postID, commentID string) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository handles comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}
