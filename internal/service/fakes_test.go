package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

// In-memory fakes for the repository interfaces. Using hand-written fakes
// instead of a mock framework keeps the tests readable: what a fake does
// is right here on the page.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users map[string]*model.User // keyed by ObjectID hex
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID.Hex()] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id string, update model.UpdateUserRequest) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.ProfilePic != nil {
		u.ProfilePic = *update.ProfilePic
	}
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateSkills(ctx context.Context, id string, skills []model.Skill) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Skills = skills
	return nil
}

func (f *fakeUserRepo) UpdateExperiences(ctx context.Context, id string, experiences []model.Experience) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Experiences = experiences
	return nil
}

func (f *fakeUserRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserRepo) SetRefreshToken(ctx context.Context, id, tokenHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshToken = tokenHash
	return nil
}

func (f *fakeUserRepo) AddPostRef(ctx context.Context, userID, postID string) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return repository.ErrPostNotFound
	}
	u.Posts = append(u.Posts, pid)
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakePostRepo struct {
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	stored := *post
	f.posts[post.ID.Hex()] = &stored
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) List(ctx context.Context) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, id string, update model.UpdatePostRequest) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Content != nil {
		p.Content = *update.Content
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) AddCommentRef(ctx context.Context, postID, commentID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return repository.ErrCommentNotFound
	}
	p.Comments = append(p.Comments, cid)
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	f.comments[comment.ID.Hex()] = &stored
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.Post.Hex() == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	c.Content = content
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}
