package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/devconnect/devconnect-go/internal/apperror"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

// CommentService handles comment business logic.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		logger:   logger,
	}
}

// Create inserts a comment on an existing post. The comment document and
// the post's back-reference are two separate writes with no rollback.
func (s *CommentService) Create(ctx context.Context, postID, authorID string, req model.CreateCommentRequest) (*model.Comment, error) {
	if req.Content == "" {
		return nil, apperror.Validation("content is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		s.logger.Error("creating comment: post lookup", "post", postID, "error", err)
		return nil, apperror.Internal("Error creating comment")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Forbidden("User not found")
		}
		s.logger.Error("creating comment: author lookup", "author", authorID, "error", err)
		return nil, apperror.Internal("Error creating comment")
	}

	comment := &model.Comment{
		Content: req.Content,
		Author:  author.ID,
		Post:    post.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("creating comment", "post", postID, "error", err)
		return nil, apperror.Internal("Error creating comment")
	}

	if err := s.posts.AddCommentRef(ctx, postID, comment.ID.Hex()); err != nil {
		// The comment is already persisted; log and carry on.
		s.logger.Error("creating comment: adding back-reference", "comment", comment.ID.Hex(), "error", err)
	}

	s.logger.Info("comment created", "comment", comment.ID.Hex(), "post", postID)
	return comment, nil
}

// FindByPost returns all comments on the given post.
func (s *CommentService) FindByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		s.logger.Error("listing comments", "post", postID, "error", err)
		return nil, apperror.Internal("Error retrieving comments")
	}
	return comments, nil
}

// FindByID returns a single comment.
func (s *CommentService) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, apperror.NotFound("Comment not found")
		}
		s.logger.Error("finding comment", "id", id, "error", err)
		return nil, apperror.Internal("Error finding comment")
	}
	return comment, nil
}

// Update edits a comment's content. Existence is checked before ownership.
func (s *CommentService) Update(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error) {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !permits(comment.Author, callerID) {
		s.logger.Warn("comment update rejected", "comment", id, "caller", callerID)
		return nil, apperror.Forbidden("You are not allowed to update this comment")
	}

	updated, err := s.comments.UpdateContent(ctx, id, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, apperror.NotFound("Comment not found")
		}
		s.logger.Error("updating comment", "id", id, "error", err)
		return nil, apperror.Internal("Error updating comment")
	}

	s.logger.Info("comment updated", "comment", id, "caller", callerID)
	return updated, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id, callerID string) error {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !permits(comment.Author, callerID) {
		s.logger.Warn("comment delete rejected", "comment", id, "caller", callerID)
		return apperror.Forbidden("You are not allowed to delete this comment")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return apperror.NotFound("Comment not found")
		}
		s.logger.Error("deleting comment", "id", id, "error", err)
		return apperror.Internal("Error deleting comment")
	}

	s.logger.Info("comment deleted", "comment", id, "caller", callerID)
	return nil
}
