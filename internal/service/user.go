package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/devconnect/devconnect-go/internal/apperror"
	"github.com/devconnect/devconnect-go/internal/crypto"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/repository"
)

// defaultRoles is assigned to every new user.
var defaultRoles = []string{"user"}

// UserService handles user management: registration, profile updates,
// password changes, and the skill/experience sub-collections.
type UserService struct {
	users     repository.UserRepository
	passwords *crypto.PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, passwords *crypto.PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Create registers a new user. The password is hashed here, before
// anything is written; plaintext never reaches the repository.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if req.Email == "" {
		return nil, apperror.Validation("email is required")
	}
	if req.Password == "" {
		return nil, apperror.Validation("password is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, apperror.Validation("first and last name are required")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		s.logger.Error("creating user: hashing password", "error", err)
		return nil, apperror.Internal("Failed to create user")
	}

	user := &model.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    hash,
		ProfilePic:  req.ProfilePic,
		Skills:      []model.Skill{},
		Experiences: []model.Experience{},
		Roles:       defaultRoles,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Warn("creating user: email already in use", "email", req.Email)
			return nil, apperror.Conflict("Email already in use")
		}
		s.logger.Error("creating user", "error", err)
		return nil, apperror.Internal("Failed to create user")
	}

	s.logger.Info("user created", "email", user.Email)
	return user, nil
}

// GetAll returns all users.
func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("listing users", "error", err)
		return nil, apperror.Internal("Error retrieving users")
	}
	return users, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		s.logger.Error("finding user", "id", id, "error", err)
		return nil, apperror.Internal("Error finding user")
	}
	return user, nil
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.UpdateProfile(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		s.logger.Error("updating user", "id", id, "error", err)
		return nil, apperror.Internal("Error updating user")
	}
	s.logger.Info("user updated", "id", id)
	return user, nil
}

// Delete removes a user. Posts and comments authored by the user are left
// in place; there is no cascade.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NotFound("User not found")
		}
		s.logger.Error("deleting user", "id", id, "error", err)
		return apperror.Internal("Error deleting user")
	}
	s.logger.Info("user deleted", "id", id)
	return nil
}

// ChangePassword verifies the current password and stores a hash of the
// new one.
func (s *UserService) ChangePassword(ctx context.Context, id string, req model.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return apperror.Validation("new password is required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.passwords.Verify(user.Password, req.CurrentPassword) {
		s.logger.Warn("password change rejected: current password mismatch", "id", id)
		return apperror.Unauthorized("Invalid current password")
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("changing password: hashing", "id", id, "error", err)
		return apperror.Internal("Error changing password")
	}
	if err := s.users.SetPassword(ctx, id, hash); err != nil {
		s.logger.Error("changing password: persisting", "id", id, "error", err)
		return apperror.Internal("Error changing password")
	}

	s.logger.Info("password changed", "id", id)
	return nil
}

// AddSkill appends a skill. Skill names are unique per user
// (case-sensitive exact match).
func (s *UserService) AddSkill(ctx context.Context, id string, req model.SkillRequest) (*model.User, error) {
	if req.Name == "" {
		return nil, apperror.Validation("skill name is required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, skill := range user.Skills {
		if skill.Name == req.Name {
			return nil, apperror.Conflict("Skill already exists")
		}
	}

	user.Skills = append(user.Skills, model.Skill{Name: req.Name, Level: req.Level})
	if err := s.users.UpdateSkills(ctx, id, user.Skills); err != nil {
		s.logger.Error("adding skill", "id", id, "error", err)
		return nil, apperror.Internal("Error adding skill")
	}

	s.logger.Info("skill added", "id", id, "skill", req.Name)
	return user, nil
}

// UpdateSkill replaces the skill named oldName. Renaming onto a name used
// by a different skill is a conflict.
func (s *UserService) UpdateSkill(ctx context.Context, id, oldName string, req model.SkillRequest) (*model.User, error) {
	if req.Name == "" {
		return nil, apperror.Validation("skill name is required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := -1
	for i, skill := range user.Skills {
		if skill.Name == oldName {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, apperror.NotFound("Skill not found")
	}

	for i, skill := range user.Skills {
		if i != target && skill.Name == req.Name {
			return nil, apperror.Conflict("Skill already exists")
		}
	}

	user.Skills[target] = model.Skill{Name: req.Name, Level: req.Level}
	if err := s.users.UpdateSkills(ctx, id, user.Skills); err != nil {
		s.logger.Error("updating skill", "id", id, "error", err)
		return nil, apperror.Internal("Error updating skill")
	}

	s.logger.Info("skill updated", "id", id, "skill", req.Name)
	return user, nil
}

// AddExperience appends an experience. An entry with identical title and
// company already present is a conflict, regardless of dates.
func (s *UserService) AddExperience(ctx context.Context, id string, req model.ExperienceRequest) (*model.User, error) {
	if req.Title == "" || req.Company == "" {
		return nil, apperror.Validation("title and company are required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, exp := range user.Experiences {
		if exp.Title == req.Title && exp.Company == req.Company {
			return nil, apperror.Conflict("Experience already exists")
		}
	}

	user.Experiences = append(user.Experiences, model.Experience{
		Title:       req.Title,
		Company:     req.Company,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err := s.users.UpdateExperiences(ctx, id, user.Experiences); err != nil {
		s.logger.Error("adding experience", "id", id, "error", err)
		return nil, apperror.Internal("Error adding experience")
	}

	s.logger.Info("experience added", "id", id, "company", req.Company)
	return user, nil
}

// UpdateExperience locates an entry by exact match on title, company and
// date range, and replaces it. The replacement's date range must not
// overlap any other entry with the same title and company.
func (s *UserService) UpdateExperience(ctx context.Context, id string, req model.UpdateExperienceRequest) (*model.User, error) {
	if req.Replacement.Title == "" || req.Replacement.Company == "" {
		return nil, apperror.Validation("title and company are required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := -1
	for i, exp := range user.Experiences {
		if exp.Title == req.Title && exp.Company == req.Company &&
			exp.StartDate.Equal(req.StartDate) && datesEqual(exp.EndDate, req.EndDate) {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, apperror.NotFound("Experience not found")
	}

	replacement := model.Experience{
		Title:       req.Replacement.Title,
		Company:     req.Replacement.Company,
		StartDate:   req.Replacement.StartDate,
		EndDate:     req.Replacement.EndDate,
		Description: req.Replacement.Description,
	}

	for i, exp := range user.Experiences {
		if i == target {
			continue
		}
		if exp.Title == replacement.Title && exp.Company == replacement.Company &&
			rangesOverlap(replacement.StartDate, replacement.EndDate, exp.StartDate, exp.EndDate) {
			return nil, apperror.Conflict("Experience dates overlap with an existing entry")
		}
	}

	user.Experiences[target] = replacement
	if err := s.users.UpdateExperiences(ctx, id, user.Experiences); err != nil {
		s.logger.Error("updating experience", "id", id, "error", err)
		return nil, apperror.Internal("Error updating experience")
	}

	s.logger.Info("experience updated", "id", id, "company", replacement.Company)
	return user, nil
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// rangesOverlap implements newStart < existingEnd && newEnd > existingStart.
// A nil end date means the position is ongoing and is treated as unbounded.
func rangesOverlap(newStart time.Time, newEnd *time.Time, existingStart time.Time, existingEnd *time.Time) bool {
	startsBeforeExistingEnds := existingEnd == nil || newStart.Before(*existingEnd)
	endsAfterExistingStarts := newEnd == nil || newEnd.After(existingStart)
	return startsBeforeExistingEnds && endsAfterExistingStarts
}
