package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Password and RefreshToken hold
// bcrypt hashes and are never serialized to JSON.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FirstName    string               `bson:"fname" json:"fname"`
	LastName     string               `bson:"lname" json:"lname"`
	Email        string               `bson:"email" json:"email"`
	Phone        string               `bson:"phone" json:"phone"`
	Password     string               `bson:"password" json:"-"`
	ProfilePic   string               `bson:"profilePic" json:"profilePic"`
	Skills       []Skill              `bson:"skills" json:"skills"`
	Experiences  []Experience         `bson:"experiences" json:"experiences"`
	Posts        []primitive.ObjectID `bson:"posts" json:"posts"`
	RefreshToken string               `bson:"refreshToken" json:"-"`
	Roles        []string             `bson:"roles" json:"roles"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Skill is a named proficiency. Names are unique per user, case-sensitive.
type Skill struct {
	Name  string `bson:"name" json:"name"`
	Level string `bson:"level" json:"level"`
}

// Experience is a work-history entry. A nil EndDate means the position is
// ongoing.
type Experience struct {
	Title       string     `bson:"title" json:"title"`
	Company     string     `bson:"company" json:"company"`
	StartDate   time.Time  `bson:"startDate" json:"startDate"`
	EndDate     *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

// CreateUserRequest represents a registration request.
type CreateUserRequest struct {
	FirstName  string `json:"fname"`
	LastName   string `json:"lname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic"`
}

// UpdateUserRequest represents a partial profile update. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	FirstName  *string `json:"fname"`
	LastName   *string `json:"lname"`
	Phone      *string `json:"phone"`
	ProfilePic *string `json:"profilePic"`
}

// ChangePasswordRequest carries a password change for a user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SkillRequest is the payload for adding or updating a skill.
type SkillRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// ExperienceRequest is the payload for adding an experience.
type ExperienceRequest struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
}

// UpdateExperienceRequest locates an existing experience by exact match on
// title, company and date range, and replaces it with Replacement.
type UpdateExperienceRequest struct {
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     *time.Time        `json:"endDate"`
	Replacement ExperienceRequest `json:"replacement"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned on successful token refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
