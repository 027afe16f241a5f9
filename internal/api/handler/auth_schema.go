package handler

import "github.com/dbu-council/council-system/internal/core/domain"

type registerRequest struct {
	Name       string `json:"name"       validate:"required"`
	Username   string `json:"username"   validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year"       validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	Account *accountResponse `json:"account,omitempty"`
}

// accountResponse is the public view of an account; the password hash and
// lockout bookkeeping never leave the service.
type accountResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	Role        domain.Role        `json:"role"`
	Permissions domain.Permissions `json:"permissions"`
	Department  string             `json:"department,omitempty"`
	Year        string             `json:"year,omitempty"`
	IsActive    bool               `json:"isActive"`
	IsLocked    bool               `json:"isLocked"`
}

func toAccountResponse(a *domain.Account) *accountResponse {
	return &accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		Permissions: domain.DerivePermissions(a.Role),
		Department:  a.Department,
		Year:        a.Year,
		IsActive:    a.IsActive,
		IsLocked:    a.IsLocked,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
