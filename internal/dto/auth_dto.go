package dto

import (
	"time"

	"github.com/examhall/examhall-api/internal/models"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=teacher student"`
	Department string `json:"department" validate:"omitempty,max=255"`
	RollNumber string `json:"roll_number" validate:"omitempty,max=64"`
	Class      string `json:"class" validate:"omitempty,max=64"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	RollNumber string    `json:"roll_number,omitempty"`
	Class      string    `json:"class,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResponse carries a signed token plus the authenticated account.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Role:       model.Role,
		Department: model.Department,
		RollNumber: model.RollNumber,
		Class:      model.Class,
		CreatedAt:  model.CreatedAt,
	}
}
