package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/devconnect/devconnect-go/internal/apperror"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

// PostService handles post business logic, including the ownership checks
// on mutation.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// Create inserts a post authored by the authenticated caller. The post
// document and the author's back-reference are two separate writes; if the
// second fails the post still exists (no rollback).
func (s *PostService) Create(ctx context.Context, authorID string, req model.CreatePostRequest) (*model.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, apperror.Validation("title and content are required")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Forbidden("User not found")
		}
		s.logger.Error("creating post: author lookup", "author", authorID, "error", err)
		return nil, apperror.Internal("Error creating post")
	}

	post := &model.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  author.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("creating post", "author", authorID, "error", err)
		return nil, apperror.Internal("Error creating post")
	}

	if err := s.users.AddPostRef(ctx, authorID, post.ID.Hex()); err != nil {
		// The post is already persisted; log and carry on.
		s.logger.Error("creating post: adding back-reference", "post", post.ID.Hex(), "error", err)
	}

	s.logger.Info("post created", "post", post.ID.Hex(), "author", authorID)
	return post, nil
}

// FindAll returns all posts.
func (s *PostService) FindAll(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("listing posts", "error", err)
		return nil, apperror.Internal("Error retrieving posts")
	}
	return posts, nil
}

// FindByID returns a single post.
func (s *PostService) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		s.logger.Error("finding post", "id", id, "error", err)
		return nil, apperror.Internal("Error finding post")
	}
	return post, nil
}

// Update edits a post's title or content. Existence is checked before
// ownership, so a missing post is NotFound regardless of the caller.
func (s *PostService) Update(ctx context.Context, id, callerID string, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !permits(post.Author, callerID) {
		s.logger.Warn("post update rejected", "post", id, "caller", callerID)
		return nil, apperror.Forbidden("You are not allowed to update this post")
	}

	updated, err := s.posts.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		s.logger.Error("updating post", "id", id, "error", err)
		return nil, apperror.Internal("Error updating post")
	}

	s.logger.Info("post updated", "post", id, "caller", callerID)
	return updated, nil
}

// Delete removes a post. Comments on the post are left in place.
func (s *PostService) Delete(ctx context.Context, id, callerID string) error {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !permits(post.Author, callerID) {
		s.logger.Warn("post delete rejected", "post", id, "caller", callerID)
		return apperror.Forbidden("You are not allowed to delete this post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperror.NotFound("Post not found")
		}
		s.logger.Error("deleting post", "id", id, "error", err)
		return apperror.Internal("Error deleting post")
	}

	s.logger.Info("post deleted", "post", id, "caller", callerID)
	return nil
}
